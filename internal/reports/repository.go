package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// Repository loads the raw rows report computations fold over. Date bounds
// are inclusive ISO strings; empty bounds are open.
type Repository interface {
	SalesBetween(ctx context.Context, key tenant.Key, from, to string) ([]SaleRow, error)
	PurchasesBetween(ctx context.Context, key tenant.Key, from, to string) ([]PurchaseRow, error)
	ExpensesBetween(ctx context.Context, key tenant.Key, from, to string) ([]ExpenseRow, error)
	CashBetween(ctx context.Context, key tenant.Key, from, to string) ([]CashRow, error)
	Parties(ctx context.Context, key tenant.Key) ([]PartyRow, error)
	Items(ctx context.Context, key tenant.Key) ([]ItemRow, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

// rangeClause appends inclusive date bounds for the given column.
func rangeClause(column string, from, to string, args []any) (string, []any) {
	clause := ""
	if from != "" {
		args = append(args, from)
		clause += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if to != "" {
		args = append(args, to)
		clause += fmt.Sprintf(" AND %s <= $%d", column, len(args))
	}
	return clause, args
}

func (r *pgRepository) SalesBetween(ctx context.Context, key tenant.Key, from, to string) ([]SaleRow, error) {
	query := `SELECT id, party_id, party_name, invoice_date::text, items, subtotal, tax_amount, discount, total_amount, paid_amount
		FROM user_sales
		WHERE phone_number = $1 AND status NOT IN ('draft', 'cancelled')`
	args := []any{key.String()}
	clause, args := rangeClause("invoice_date", from, to, args)
	query += clause + " ORDER BY invoice_date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load sales rows: %w", err)
	}
	defer rows.Close()

	out := make([]SaleRow, 0)
	for rows.Next() {
		var row SaleRow
		var rawItems []byte
		if err := rows.Scan(&row.ID, &row.PartyID, &row.PartyName, &row.Date, &rawItems,
			&row.Subtotal, &row.TaxAmount, &row.Discount, &row.Total, &row.Paid); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		if row.Items, err = lineitem.Decode(rawItems); err != nil {
			return nil, fmt.Errorf("decode sale %d items: %w", row.ID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *pgRepository) PurchasesBetween(ctx context.Context, key tenant.Key, from, to string) ([]PurchaseRow, error) {
	query := `SELECT id, party_id, party_name, bill_date::text, items, subtotal, tax_amount, discount, total_amount, paid_amount
		FROM user_purchases
		WHERE phone_number = $1 AND status NOT IN ('draft', 'cancelled')`
	args := []any{key.String()}
	clause, args := rangeClause("bill_date", from, to, args)
	query += clause + " ORDER BY bill_date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load purchase rows: %w", err)
	}
	defer rows.Close()

	out := make([]PurchaseRow, 0)
	for rows.Next() {
		var row PurchaseRow
		var rawItems []byte
		if err := rows.Scan(&row.ID, &row.PartyID, &row.PartyName, &row.Date, &rawItems,
			&row.Subtotal, &row.TaxAmount, &row.Discount, &row.Total, &row.Paid); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		if row.Items, err = lineitem.Decode(rawItems); err != nil {
			return nil, fmt.Errorf("decode purchase %d items: %w", row.ID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *pgRepository) ExpensesBetween(ctx context.Context, key tenant.Key, from, to string) ([]ExpenseRow, error) {
	query := `SELECT id, category, date::text, amount FROM user_expenses WHERE phone_number = $1`
	args := []any{key.String()}
	clause, args := rangeClause("date", from, to, args)
	query += clause + " ORDER BY date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load expense rows: %w", err)
	}
	defer rows.Close()

	out := make([]ExpenseRow, 0)
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.ID, &row.Category, &row.Date, &row.Amount); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *pgRepository) CashBetween(ctx context.Context, key tenant.Key, from, to string) ([]CashRow, error) {
	query := `SELECT id, type, category, date::text, amount FROM user_cash_transactions WHERE phone_number = $1`
	args := []any{key.String()}
	clause, args := rangeClause("date", from, to, args)
	query += clause + " ORDER BY date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load cash rows: %w", err)
	}
	defer rows.Close()

	out := make([]CashRow, 0)
	for rows.Next() {
		var row CashRow
		if err := rows.Scan(&row.ID, &row.Type, &row.Category, &row.Date, &row.Amount); err != nil {
			return nil, fmt.Errorf("scan cash row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *pgRepository) Parties(ctx context.Context, key tenant.Key) ([]PartyRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, balance, total_transactions, last_transaction
		 FROM user_parties WHERE phone_number = $1 ORDER BY id`,
		key.String())
	if err != nil {
		return nil, fmt.Errorf("load party rows: %w", err)
	}
	defer rows.Close()

	out := make([]PartyRow, 0)
	for rows.Next() {
		var row PartyRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Balance, &row.TotalTransaction, &row.LastTransaction); err != nil {
			return nil, fmt.Errorf("scan party row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *pgRepository) Items(ctx context.Context, key tenant.Key) ([]ItemRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, unit, stock, sale_price, purchase_price
		 FROM user_items WHERE phone_number = $1 ORDER BY id`,
		key.String())
	if err != nil {
		return nil, fmt.Errorf("load item rows: %w", err)
	}
	defer rows.Close()

	out := make([]ItemRow, 0)
	for rows.Next() {
		var row ItemRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Unit, &row.Stock, &row.SalePrice, &row.PurchasePrice); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
