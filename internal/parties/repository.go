package parties

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Repository interface {
	List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Party, int, error)
	Get(ctx context.Context, key tenant.Key, id int64) (Party, error)
	Create(ctx context.Context, key tenant.Key, party Party) (Party, error)
	Update(ctx context.Context, key tenant.Key, id int64, party Party) error
	Delete(ctx context.Context, key tenant.Key, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const partyColumns = `id, name, type, phone, email, address, gst_number, balance, credit_limit, status, total_transactions, last_transaction, created_at, updated_at`

func scanParty(row pgx.Row) (Party, error) {
	var p Party
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.Address, &p.GSTNumber,
		&p.Balance, &p.CreditLimit, &p.Status, &p.TotalTransactions, &p.LastTransaction,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Party, int, error) {
	query := `SELECT ` + partyColumns + ` FROM user_parties WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_parties WHERE phone_number = $1`
	args := []interface{}{key.String()}

	appendFilter := func(clause string, value interface{}) {
		args = append(args, value)
		placeholder := "$" + strconv.Itoa(len(args))
		query += " AND " + clause + placeholder
		countQuery += " AND " + clause + placeholder
	}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		clause := " AND (name ILIKE " + placeholder + " OR phone ILIKE " + placeholder + ")"
		query += clause
		countQuery += clause
	}
	if filters.Type != "" {
		if filters.Type == TypeCustomer || filters.Type == TypeSupplier {
			// "both" parties act as either role.
			args = append(args, filters.Type)
			placeholder := "$" + strconv.Itoa(len(args))
			query += " AND (type = " + placeholder + " OR type = 'both')"
			countQuery += " AND (type = " + placeholder + " OR type = 'both')"
		} else {
			appendFilter("type = ", filters.Type)
		}
	}
	if filters.Status != "" {
		appendFilter("status = ", filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)
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

	var list []Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, key tenant.Key, id int64) (Party, error) {
	query := `SELECT ` + partyColumns + ` FROM user_parties WHERE phone_number = $1 AND id = $2`
	p, err := scanParty(r.db.QueryRow(ctx, query, key.String(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, key tenant.Key, party Party) (Party, error) {
	query := `INSERT INTO user_parties
		(phone_number, name, type, phone, email, address, gst_number, balance, opening_balance, credit_limit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9, $10, $11, $11)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, key.String(), party.Name, party.Type, party.Phone, party.Email,
		party.Address, party.GSTNumber, party.Balance, party.CreditLimit, party.Status, now).Scan(&party.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Party{}, shared.ErrDuplicate
		}
		return Party{}, err
	}
	party.CreatedAt = now
	party.UpdatedAt = now
	return party, nil
}

func (r *repository) Update(ctx context.Context, key tenant.Key, id int64, party Party) error {
	query := `UPDATE user_parties SET name = $1, type = $2, phone = $3, email = $4, address = $5,
		gst_number = $6, credit_limit = $7, status = $8, updated_at = $9
		WHERE phone_number = $10 AND id = $11`
	tag, err := r.db.Exec(ctx, query, party.Name, party.Type, party.Phone, party.Email, party.Address,
		party.GSTNumber, party.CreditLimit, party.Status, time.Now(), key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, key tenant.Key, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_parties WHERE phone_number = $1 AND id = $2`, key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ApplyTransaction applies a posted document's effect on a party inside the
// caller's transaction. The increment happens server-side in the database,
// so two concurrent postings both land (no read-modify-write race).
func ApplyTransaction(ctx context.Context, tx pgx.Tx, key tenant.Key, partyID int64, delta float64, at time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE user_parties
		SET balance = balance + $1,
		    total_transactions = total_transactions + 1,
		    last_transaction = $2,
		    updated_at = $2
		WHERE phone_number = $3 AND id = $4`,
		delta, at, key.String(), partyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReverseTransaction undoes ApplyTransaction when a posted document is
// deleted or re-posted with new amounts.
func ReverseTransaction(ctx context.Context, tx pgx.Tx, key tenant.Key, partyID int64, delta float64, at time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE user_parties
		SET balance = balance - $1,
		    total_transactions = GREATEST(total_transactions - 1, 0),
		    updated_at = $2
		WHERE phone_number = $3 AND id = $4`,
		delta, at, key.String(), partyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "balance":
		return "balance " + dir
	case "last_transaction":
		return "last_transaction " + dir + " NULLS LAST"
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
