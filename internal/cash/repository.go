package cash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Repository interface {
	ListTransactions(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Transaction, int, error)
	GetTransaction(ctx context.Context, key tenant.Key, id int64) (Transaction, error)
	CreateTransaction(ctx context.Context, key tenant.Key, txn Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, key tenant.Key, id int64) error

	ListAccounts(ctx context.Context, key tenant.Key) ([]BankAccount, error)
	GetAccount(ctx context.Context, key tenant.Key, id int64) (BankAccount, error)
	CreateAccount(ctx context.Context, key tenant.Key, account BankAccount) (BankAccount, error)
	UpdateAccount(ctx context.Context, key tenant.Key, account BankAccount) (BankAccount, error)
	DeleteAccount(ctx context.Context, key tenant.Key, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const txnColumns = `id, type, amount, category, description, date, bank_account_id, payment_method, created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.BankAccountID, &t.PaymentMethod, &t.CreatedAt)
	return t, err
}

func (r *pgRepository) ListTransactions(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Transaction, int, error) {
	query := `SELECT ` + txnColumns + ` FROM user_cash_transactions WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_cash_transactions WHERE phone_number = $1`
	args := []any{string(key)}

	if filters.Type == TypeIn || filters.Type == TypeOut {
		args = append(args, filters.Type)
		clause := fmt.Sprintf(" AND type = $%d", len(args))
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
		return nil, 0, fmt.Errorf("count cash transactions: %w", err)
	}

	query += " ORDER BY date DESC, id DESC"
	if filters.Paginated() {
		args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cash transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, total, rows.Err()
}

func (r *pgRepository) GetTransaction(ctx context.Context, key tenant.Key, id int64) (Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+txnColumns+` FROM user_cash_transactions WHERE phone_number = $1 AND id = $2`,
		string(key), id)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, shared.ErrNotFound
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("get cash transaction: %w", err)
	}
	return t, nil
}

func (r *pgRepository) CreateTransaction(ctx context.Context, key tenant.Key, txn Transaction) (Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO user_cash_transactions (phone_number, type, amount, category, description, date, bank_account_id, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+txnColumns,
		string(key), txn.Type, txn.Amount, txn.Category, txn.Description,
		txn.Date, txn.BankAccountID, txn.PaymentMethod)
	created, err := scanTransaction(row)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert cash transaction: %w", err)
	}

	if err := r.applyEffects(ctx, tx, key, created, 1); err != nil {
		return Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *pgRepository) DeleteTransaction(ctx context.Context, key tenant.Key, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+txnColumns+` FROM user_cash_transactions WHERE phone_number = $1 AND id = $2 FOR UPDATE`,
		string(key), id)
	prev, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock cash transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_cash_transactions WHERE phone_number = $1 AND id = $2`, string(key), id); err != nil {
		return fmt.Errorf("delete cash transaction: %w", err)
	}
	if err := r.applyEffects(ctx, tx, key, prev, -1); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// applyEffects moves the linked bank balance and appends the feed entry.
// sign is +1 when posting, -1 when reversing.
func (r *pgRepository) applyEffects(ctx context.Context, tx pgx.Tx, key tenant.Key, txn Transaction, sign float64) error {
	if txn.BankAccountID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE user_bank_accounts
			SET balance = balance + $3, updated_at = NOW()
			WHERE phone_number = $1 AND id = $2`,
			string(key), *txn.BankAccountID, sign*txn.Signed())
		if err != nil {
			return fmt.Errorf("adjust bank balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: bank account %d", shared.ErrNotFound, *txn.BankAccountID)
		}
	}

	kind := ledger.KindCashIn
	if txn.Type == TypeOut {
		kind = ledger.KindCashOut
	}
	if sign < 0 {
		kind = ledger.KindReversal
	}
	return ledger.Insert(ctx, tx, key, ledger.Entry{
		Kind:       kind,
		RefID:      txn.ID,
		Amount:     sign * txn.Signed(),
		Memo:       txn.Category,
		OccurredAt: txn.Date.Time,
	})
}

const accountColumns = `id, name, COALESCE(account_number, ''), COALESCE(bank_name, ''), balance, created_at, updated_at`

func scanAccount(row pgx.Row) (BankAccount, error) {
	var a BankAccount
	err := row.Scan(&a.ID, &a.Name, &a.AccountNumber, &a.BankName, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *pgRepository) ListAccounts(ctx context.Context, key tenant.Key) ([]BankAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM user_bank_accounts WHERE phone_number = $1 ORDER BY name`,
		string(key))
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]BankAccount, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *pgRepository) GetAccount(ctx context.Context, key tenant.Key, id int64) (BankAccount, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM user_bank_accounts WHERE phone_number = $1 AND id = $2`,
		string(key), id)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankAccount{}, shared.ErrNotFound
	}
	if err != nil {
		return BankAccount{}, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *pgRepository) CreateAccount(ctx context.Context, key tenant.Key, account BankAccount) (BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_bank_accounts (phone_number, name, account_number, bank_name, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		string(key), account.Name, account.AccountNumber, account.BankName, account.Balance)
	a, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return BankAccount{}, shared.ErrDuplicate
		}
		return BankAccount{}, fmt.Errorf("insert bank account: %w", err)
	}
	return a, nil
}

func (r *pgRepository) UpdateAccount(ctx context.Context, key tenant.Key, account BankAccount) (BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE user_bank_accounts
		SET name = $3, account_number = $4, bank_name = $5, updated_at = NOW()
		WHERE phone_number = $1 AND id = $2
		RETURNING `+accountColumns,
		string(key), account.ID, account.Name, account.AccountNumber, account.BankName)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankAccount{}, shared.ErrNotFound
	}
	if err != nil {
		return BankAccount{}, fmt.Errorf("update bank account: %w", err)
	}
	return a, nil
}

func (r *pgRepository) DeleteAccount(ctx context.Context, key tenant.Key, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_bank_accounts WHERE phone_number = $1 AND id = $2`,
		string(key), id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
