package purchases

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/items"
	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/parties"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Repository interface {
	List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Purchase, int, error)
	Get(ctx context.Context, key tenant.Key, id int64) (Purchase, error)
	Create(ctx context.Context, key tenant.Key, purchase Purchase) (Purchase, error)
	Update(ctx context.Context, key tenant.Key, id int64, purchase Purchase) (Purchase, error)
	Delete(ctx context.Context, key tenant.Key, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const purchaseColumns = `id, bill_number, party_id, party_name, bill_date, items, subtotal, tax_amount, discount, total_amount, paid_amount, payment_status, payment_method, status, notes, created_at, updated_at`

func scanPurchase(row pgx.Row) (Purchase, error) {
	var p Purchase
	var rawItems []byte
	err := row.Scan(&p.ID, &p.BillNumber, &p.PartyID, &p.PartyName, &p.BillDate, &rawItems,
		&p.Subtotal, &p.TaxAmount, &p.Discount, &p.TotalAmount, &p.PaidAmount,
		&p.PaymentStatus, &p.PaymentMethod, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Purchase{}, err
	}
	p.Items, err = lineitem.Decode(rawItems)
	return p, err
}

func (r *repository) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Purchase, int, error) {
	query := `SELECT ` + purchaseColumns + ` FROM user_purchases WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_purchases WHERE phone_number = $1`
	args := []interface{}{key.String()}

	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		full := " AND " + clause + "$" + strconv.Itoa(len(args))
		query += full
		countQuery += full
	}

	if filters.PartyID > 0 {
		addClause("party_id = ", filters.PartyID)
	}
	if filters.Status != "" {
		addClause("status = ", filters.Status)
	}
	if filters.StartDate != "" {
		if from, err := shared.ParseDate(filters.StartDate); err == nil {
			addClause("bill_date >= ", from)
		}
	}
	if filters.EndDate != "" {
		if to, err := shared.ParseDate(filters.EndDate); err == nil {
			addClause("bill_date <= ", to)
		}
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		clause := " AND (bill_number ILIKE " + placeholder + " OR party_name ILIKE " + placeholder + ")"
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY bill_date DESC, id DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, key tenant.Key, id int64) (Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM user_purchases WHERE phone_number = $1 AND id = $2`
	p, err := scanPurchase(r.db.QueryRow(ctx, query, key.String(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, shared.ErrNotFound
	}
	return p, err
}

// Create inserts the bill and, for posted documents, applies every side
// effect in the same transaction.
func (r *repository) Create(ctx context.Context, key tenant.Key, purchase Purchase) (Purchase, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Purchase{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemsJSON, err := lineitem.Encode(purchase.Items)
	if err != nil {
		return Purchase{}, err
	}
	now := time.Now()
	err = tx.QueryRow(ctx, `INSERT INTO user_purchases
		(phone_number, bill_number, party_id, party_name, bill_date, items, subtotal, tax_amount,
		 discount, total_amount, paid_amount, payment_status, payment_method, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING id`,
		key.String(), purchase.BillNumber, purchase.PartyID, purchase.PartyName, purchase.BillDate, itemsJSON,
		purchase.Subtotal, purchase.TaxAmount, purchase.Discount, purchase.TotalAmount, purchase.PaidAmount,
		purchase.PaymentStatus, purchase.PaymentMethod, purchase.Status, purchase.Notes, now).Scan(&purchase.ID)
	if err != nil {
		return Purchase{}, err
	}

	if purchase.Posted() {
		if err := applyEffects(ctx, tx, key, purchase, 1); err != nil {
			return Purchase{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Purchase{}, err
	}
	purchase.CreatedAt = now
	purchase.UpdatedAt = now
	return purchase, nil
}

// Update reverses the stored document's effects and re-posts the new ones.
func (r *repository) Update(ctx context.Context, key tenant.Key, id int64, purchase Purchase) (Purchase, error) {
	current, err := r.Get(ctx, key, id)
	if err != nil {
		return Purchase{}, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Purchase{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if current.Posted() {
		if err := applyEffects(ctx, tx, key, current, -1); err != nil {
			return Purchase{}, err
		}
	}

	itemsJSON, err := lineitem.Encode(purchase.Items)
	if err != nil {
		return Purchase{}, err
	}
	now := time.Now()
	tag, err := tx.Exec(ctx, `UPDATE user_purchases SET bill_number = $1, party_id = $2, party_name = $3,
		bill_date = $4, items = $5, subtotal = $6, tax_amount = $7, discount = $8, total_amount = $9,
		paid_amount = $10, payment_status = $11, payment_method = $12, status = $13, notes = $14, updated_at = $15
		WHERE phone_number = $16 AND id = $17`,
		purchase.BillNumber, purchase.PartyID, purchase.PartyName, purchase.BillDate, itemsJSON,
		purchase.Subtotal, purchase.TaxAmount, purchase.Discount, purchase.TotalAmount, purchase.PaidAmount,
		purchase.PaymentStatus, purchase.PaymentMethod, purchase.Status, purchase.Notes, now, key.String(), id)
	if err != nil {
		return Purchase{}, err
	}
	if tag.RowsAffected() == 0 {
		return Purchase{}, shared.ErrNotFound
	}

	purchase.ID = id
	if purchase.Posted() {
		if err := applyEffects(ctx, tx, key, purchase, 1); err != nil {
			return Purchase{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Purchase{}, err
	}
	purchase.CreatedAt = current.CreatedAt
	purchase.UpdatedAt = now
	return purchase, nil
}

// Delete reverses a posted document's effects and removes the row.
func (r *repository) Delete(ctx context.Context, key tenant.Key, id int64) error {
	current, err := r.Get(ctx, key, id)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if current.Posted() {
		if err := applyEffects(ctx, tx, key, current, -1); err != nil {
			return err
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM user_purchases WHERE phone_number = $1 AND id = $2`, key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return tx.Commit(ctx)
}

// applyEffects posts (sign=1) or reverses (sign=-1) a purchase's side
// effects as computed by purchaseEffect, all inside the caller's
// transaction.
func applyEffects(ctx context.Context, tx pgx.Tx, key tenant.Key, purchase Purchase, sign float64) error {
	eff := purchaseEffect(purchase, sign)
	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       eff.LedgerKind,
		RefID:      purchase.ID,
		PartyID:    eff.PartyID,
		Amount:     eff.LedgerAmount,
		Memo:       eff.LedgerMemo,
		OccurredAt: purchase.BillDate.Time,
	}); err != nil {
		return err
	}
	if eff.PartyID != nil {
		now := time.Now()
		if sign > 0 {
			if err := parties.ApplyTransaction(ctx, tx, key, *eff.PartyID, eff.PartyDelta, now); err != nil {
				return err
			}
		} else {
			if err := parties.ReverseTransaction(ctx, tx, key, *eff.PartyID, -eff.PartyDelta, now); err != nil {
				return err
			}
		}
	}
	for itemID, delta := range eff.StockDeltas {
		if err := items.AdjustStock(ctx, tx, key, itemID, delta); err != nil {
			return err
		}
	}
	return nil
}
