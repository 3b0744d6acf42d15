package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Repository interface {
	List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Expense, int, error)
	Get(ctx context.Context, key tenant.Key, id int64) (Expense, error)
	Create(ctx context.Context, key tenant.Key, expense Expense) (Expense, error)
	Update(ctx context.Context, key tenant.Key, expense Expense) (Expense, error)
	Delete(ctx context.Context, key tenant.Key, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const expenseColumns = `id, category, description, amount, date, payment_method, COALESCE(notes, ''), created_at, updated_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Date, &e.PaymentMethod, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *pgRepository) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Expense, int, error) {
	query := `SELECT ` + expenseColumns + ` FROM user_expenses WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_expenses WHERE phone_number = $1`
	args := []any{string(key)}

	if filters.Type != "" {
		args = append(args, filters.Type)
		clause := fmt.Sprintf(" AND category = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if filters.StartDate != "" {
		args = append(args, filters.StartDate)
		clause := fmt.Sprintf(" AND date >= $%d", len(args))
		query += clause
		countQuery += clause
	}
	if filters.EndDate != "" {
		args = append(args, filters.EndDate)
		clause := fmt.Sprintf(" AND date <= $%d", len(args))
		query += clause
		countQuery += clause
	}
	if filters.Search != "" {
		args = append(args, "%"+strings.TrimSpace(filters.Search)+"%")
		clause := fmt.Sprintf(" AND (description ILIKE $%d OR category ILIKE $%d)", len(args), len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	query += " ORDER BY date DESC, id DESC"
	if filters.Paginated() {
		args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, key tenant.Key, id int64) (Expense, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM user_expenses WHERE phone_number = $1 AND id = $2`,
		string(key), id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, shared.ErrNotFound
	}
	if err != nil {
		return Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *pgRepository) Create(ctx context.Context, key tenant.Key, expense Expense) (Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO user_expenses (phone_number, category, description, amount, date, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		string(key), expense.Category, expense.Description, expense.Amount,
		expense.Date, expense.PaymentMethod, expense.Notes)
	created, err := scanExpense(row)
	if err != nil {
		return Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       ledger.KindExpense,
		RefID:      created.ID,
		Amount:     -created.Amount,
		Memo:       created.Category,
		OccurredAt: created.Date.Time,
	}); err != nil {
		return Expense{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Expense{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *pgRepository) Update(ctx context.Context, key tenant.Key, expense Expense) (Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	prev, err := r.getTx(ctx, tx, key, expense.ID)
	if err != nil {
		return Expense{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE user_expenses
		SET category = $3, description = $4, amount = $5, date = $6,
		    payment_method = $7, notes = $8, updated_at = NOW()
		WHERE phone_number = $1 AND id = $2
		RETURNING `+expenseColumns,
		string(key), expense.ID, expense.Category, expense.Description,
		expense.Amount, expense.Date, expense.PaymentMethod, expense.Notes)
	updated, err := scanExpense(row)
	if err != nil {
		return Expense{}, fmt.Errorf("update expense: %w", err)
	}

	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       ledger.KindReversal,
		RefID:      prev.ID,
		Amount:     prev.Amount,
		Memo:       "expense amended",
		OccurredAt: prev.Date.Time,
	}); err != nil {
		return Expense{}, err
	}
	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       ledger.KindExpense,
		RefID:      updated.ID,
		Amount:     -updated.Amount,
		Memo:       updated.Category,
		OccurredAt: updated.Date.Time,
	}); err != nil {
		return Expense{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Expense{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

func (r *pgRepository) Delete(ctx context.Context, key tenant.Key, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	prev, err := r.getTx(ctx, tx, key, id)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM user_expenses WHERE phone_number = $1 AND id = $2`, string(key), id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	if err := ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       ledger.KindReversal,
		RefID:      prev.ID,
		Amount:     prev.Amount,
		Memo:       "expense removed",
		OccurredAt: prev.Date.Time,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgRepository) getTx(ctx context.Context, tx pgx.Tx, key tenant.Key, id int64) (Expense, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM user_expenses WHERE phone_number = $1 AND id = $2 FOR UPDATE`,
		string(key), id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, shared.ErrNotFound
	}
	if err != nil {
		return Expense{}, fmt.Errorf("lock expense: %w", err)
	}
	return e, nil
}
