// Package ledger records every posted business transaction in an append-only
// feed. The feed is the source of truth for party balances: the running
// totals stored on party rows are a convenience that the reconciliation job
// periodically re-derives from here.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// Entry kinds.
const (
	KindSale     = "sale"
	KindPurchase = "purchase"
	KindExpense  = "expense"
	KindCashIn   = "cash_in"
	KindCashOut  = "cash_out"
	KindReversal = "reversal"
)

// Entry is one immutable ledger line. Amount is signed from the business's
// point of view against the party balance: a sale is positive (receivable
// grows), a purchase negative.
type Entry struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	RefID      int64      `json:"ref_id"`
	PartyID    *int64     `json:"party_id,omitempty"`
	Amount     float64    `json:"amount"`
	Memo       string     `json:"memo,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Insert appends an entry inside the caller's posting transaction.
func Insert(ctx context.Context, tx pgx.Tx, key tenant.Key, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	_, err := tx.Exec(ctx, `INSERT INTO user_business_transactions
		(id, phone_number, kind, ref_id, party_id, amount, memo, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		e.ID, key.String(), e.Kind, e.RefID, e.PartyID, e.Amount, e.Memo, e.OccurredAt)
	return err
}

// Repository reads the feed.
type Repository interface {
	BalancesByParty(ctx context.Context, key tenant.Key) (map[int64]float64, error)
	Tenants(ctx context.Context) ([]tenant.Key, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// BalancesByParty derives each party's balance from the feed.
func (r *repository) BalancesByParty(ctx context.Context, key tenant.Key) (map[int64]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT party_id, COALESCE(SUM(amount), 0)
		FROM user_business_transactions
		WHERE phone_number = $1 AND party_id IS NOT NULL
		GROUP BY party_id`, key.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[int64]float64)
	for rows.Next() {
		var partyID int64
		var sum float64
		if err := rows.Scan(&partyID, &sum); err != nil {
			return nil, err
		}
		balances[partyID] = sum
	}
	return balances, rows.Err()
}

// Tenants lists every tenant key present in the feed.
func (r *repository) Tenants(ctx context.Context) ([]tenant.Key, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT phone_number FROM user_business_transactions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []tenant.Key
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		keys = append(keys, tenant.Key(raw))
	}
	return keys, rows.Err()
}
