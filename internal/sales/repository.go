package sales

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
	List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Sale, int, error)
	Get(ctx context.Context, key tenant.Key, id int64) (Sale, error)
	Create(ctx context.Context, key tenant.Key, sale Sale) (Sale, error)
	Update(ctx context.Context, key tenant.Key, id int64, sale Sale) (Sale, error)
	Delete(ctx context.Context, key tenant.Key, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `id, invoice_number, party_id, party_name, invoice_date, items, subtotal, tax_amount, discount, total_amount, paid_amount, payment_status, payment_method, status, notes, created_at, updated_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	var rawItems []byte
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.PartyID, &s.PartyName, &s.InvoiceDate, &rawItems,
		&s.Subtotal, &s.TaxAmount, &s.Discount, &s.TotalAmount, &s.PaidAmount,
		&s.PaymentStatus, &s.PaymentMethod, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Sale{}, err
	}
	// Legacy rows may hold the array string-encoded; Decode accepts both.
	s.Items, err = lineitem.Decode(rawItems)
	return s, err
}

func (r *repository) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Sale, int, error) {
	query := `SELECT ` + saleColumns + ` FROM user_sales WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_sales WHERE phone_number = $1`
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
			addClause("invoice_date >= ", from)
		}
	}
	if filters.EndDate != "" {
		if to, err := shared.ParseDate(filters.EndDate); err == nil {
			addClause("invoice_date <= ", to)
		}
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		clause := " AND (invoice_number ILIKE " + placeholder + " OR party_name ILIKE " + placeholder + ")"
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY invoice_date DESC, id DESC"
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

	var list []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, key tenant.Key, id int64) (Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM user_sales WHERE phone_number = $1 AND id = $2`
	s, err := scanSale(r.db.QueryRow(ctx, query, key.String(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	return s, err
}

// Create inserts the invoice and, for posted documents, applies every side
// effect in the same transaction: ledger entry, party balance increment,
// stock decrements. A failure in any step rolls back all of them.
func (r *repository) Create(ctx context.Context, key tenant.Key, sale Sale) (Sale, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Sale{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemsJSON, err := lineitem.Encode(sale.Items)
	if err != nil {
		return Sale{}, err
	}
	now := time.Now()
	err = tx.QueryRow(ctx, `INSERT INTO user_sales
		(phone_number, invoice_number, party_id, party_name, invoice_date, items, subtotal, tax_amount,
		 discount, total_amount, paid_amount, payment_status, payment_method, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING id`,
		key.String(), sale.InvoiceNumber, sale.PartyID, sale.PartyName, sale.InvoiceDate, itemsJSON,
		sale.Subtotal, sale.TaxAmount, sale.Discount, sale.TotalAmount, sale.PaidAmount,
		sale.PaymentStatus, sale.PaymentMethod, sale.Status, sale.Notes, now).Scan(&sale.ID)
	if err != nil {
		return Sale{}, err
	}

	if sale.Posted() {
		if err := applyEffects(ctx, tx, key, sale, 1); err != nil {
			return Sale{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	sale.CreatedAt = now
	sale.UpdatedAt = now
	return sale, nil
}

// Update reverses the stored document's effects and re-posts the new ones,
// all inside one transaction.
func (r *repository) Update(ctx context.Context, key tenant.Key, id int64, sale Sale) (Sale, error) {
	current, err := r.Get(ctx, key, id)
	if err != nil {
		return Sale{}, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Sale{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if current.Posted() {
		if err := applyEffects(ctx, tx, key, current, -1); err != nil {
			return Sale{}, err
		}
	}

	itemsJSON, err := lineitem.Encode(sale.Items)
	if err != nil {
		return Sale{}, err
	}
	now := time.Now()
	tag, err := tx.Exec(ctx, `UPDATE user_sales SET invoice_number = $1, party_id = $2, party_name = $3,
		invoice_date = $4, items = $5, subtotal = $6, tax_amount = $7, discount = $8, total_amount = $9,
		paid_amount = $10, payment_status = $11, payment_method = $12, status = $13, notes = $14, updated_at = $15
		WHERE phone_number = $16 AND id = $17`,
		sale.InvoiceNumber, sale.PartyID, sale.PartyName, sale.InvoiceDate, itemsJSON,
		sale.Subtotal, sale.TaxAmount, sale.Discount, sale.TotalAmount, sale.PaidAmount,
		sale.PaymentStatus, sale.PaymentMethod, sale.Status, sale.Notes, now, key.String(), id)
	if err != nil {
		return Sale{}, err
	}
	if tag.RowsAffected() == 0 {
		return Sale{}, shared.ErrNotFound
	}

	sale.ID = id
	if sale.Posted() {
		if err := applyEffects(ctx, tx, key, sale, 1); err != nil {
			return Sale{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	sale.CreatedAt = current.CreatedAt
	sale.UpdatedAt = now
	return sale, nil
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
	tag, err := tx.Exec(ctx, `DELETE FROM user_sales WHERE phone_number = $1 AND id = $2`, key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return tx.Commit(ctx)
}

// applyEffects posts (sign=1) or reverses (sign=-1) a sale's side effects
// as computed by saleEffect, all inside the caller's transaction.
func applyEffects(ctx context.Context, tx pgx.Tx, key tenant.Key, sale Sale, sign float64) error {
	eff := saleEffect(sale, sign)
	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       eff.LedgerKind,
		RefID:      sale.ID,
		PartyID:    eff.PartyID,
		Amount:     eff.LedgerAmount,
		Memo:       eff.LedgerMemo,
		OccurredAt: sale.InvoiceDate.Time,
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
