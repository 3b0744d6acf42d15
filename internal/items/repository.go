package items

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
	List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Item, int, error)
	Get(ctx context.Context, key tenant.Key, id int64) (Item, error)
	Create(ctx context.Context, key tenant.Key, item Item) (Item, error)
	Update(ctx context.Context, key tenant.Key, id int64, item Item) error
	Delete(ctx context.Context, key tenant.Key, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const itemColumns = `id, name, type, category, unit, sale_price, purchase_price, stock, min_stock, tax_rate, status, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Type, &it.Category, &it.Unit, &it.SalePrice,
		&it.PurchasePrice, &it.Stock, &it.MinStock, &it.TaxRate, &it.Status,
		&it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Item, int, error) {
	query := `SELECT ` + itemColumns + ` FROM user_items WHERE phone_number = $1`
	countQuery := `SELECT COUNT(*) FROM user_items WHERE phone_number = $1`
	args := []interface{}{key.String()}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		clause := " AND (name ILIKE " + placeholder + " OR category ILIKE " + placeholder + ")"
		query += clause
		countQuery += clause
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		clause := " AND type = $" + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		clause := " AND status = $" + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
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

	var list []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, it)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, key tenant.Key, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM user_items WHERE phone_number = $1 AND id = $2`
	it, err := scanItem(r.db.QueryRow(ctx, query, key.String(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.ErrNotFound
	}
	return it, err
}

func (r *repository) Create(ctx context.Context, key tenant.Key, item Item) (Item, error) {
	query := `INSERT INTO user_items
		(phone_number, name, type, category, unit, sale_price, purchase_price, stock, min_stock, tax_rate, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, key.String(), item.Name, item.Type, item.Category, item.Unit,
		item.SalePrice, item.PurchasePrice, item.Stock, item.MinStock, item.TaxRate, item.Status, now).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Item{}, shared.ErrDuplicate
		}
		return Item{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, key tenant.Key, id int64, item Item) error {
	query := `UPDATE user_items SET name = $1, type = $2, category = $3, unit = $4, sale_price = $5,
		purchase_price = $6, min_stock = $7, tax_rate = $8, status = $9, updated_at = $10
		WHERE phone_number = $11 AND id = $12`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Type, item.Category, item.Unit, item.SalePrice,
		item.PurchasePrice, item.MinStock, item.TaxRate, item.Status, time.Now(), key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, key tenant.Key, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_items WHERE phone_number = $1 AND id = $2`, key.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustStock applies a stock delta inside the caller's posting transaction.
// Only product rows carry stock; service/category/unit rows are ignored.
// Missing item ids are tolerated: legacy documents reference items by name
// only, and posting must not fail because a line has no catalogue entry.
func AdjustStock(ctx context.Context, tx pgx.Tx, key tenant.Key, itemID int64, delta float64) error {
	if itemID == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `UPDATE user_items
		SET stock = stock + $1, updated_at = $2
		WHERE phone_number = $3 AND id = $4 AND type = 'product'`,
		delta, time.Now(), key.String(), itemID)
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "stock":
		return "stock " + dir
	case "sale_price":
		return "sale_price " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
