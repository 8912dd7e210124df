package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = domain.ErrNotFound

type OrderInput struct {
	OrderDate       domain.Date
	ProductCode     string
	ProductName     string
	QuantityOrdered int
	SupplierID      int64
	PersonnelID     int64
}

type OrderListFilter struct {
	PersonnelID *int64
	SupplierID  *int64
	Limit       int
	Offset      int
}

type StockInput struct {
	EntryDate domain.Date
	ExitDate  *domain.Date
	Quantity  int
	OrderID   int64
}

type StockListFilter struct {
	OrderID  *int64
	OpenOnly bool
	Limit    int
	Offset   int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orderColumns = `
	order_id,
	order_date,
	product_code,
	product_name,
	quantity_ordered,
	supplier_id,
	personnel_id,
	created_at,
	updated_at
`

func (r *Repository) CreateOrder(ctx context.Context, input OrderInput) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (
			order_date,
			product_code,
			product_name,
			quantity_ordered,
			supplier_id,
			personnel_id
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		dateArg(&input.OrderDate),
		strings.TrimSpace(input.ProductCode),
		strings.TrimSpace(input.ProductName),
		input.QuantityOrdered,
		input.SupplierID,
		input.PersonnelID,
	)
	order, err := scanOrderRow(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
	order, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, id int64, input OrderInput) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET
			order_date = $2,
			product_code = $3,
			product_name = $4,
			quantity_ordered = $5,
			supplier_id = $6,
			personnel_id = $7,
			updated_at = NOW()
		WHERE order_id = $1
		RETURNING `+orderColumns,
		id,
		dateArg(&input.OrderDate),
		strings.TrimSpace(input.ProductCode),
		strings.TrimSpace(input.ProductName),
		input.QuantityOrdered,
		input.SupplierID,
		input.PersonnelID,
	)
	order, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return &order, nil
}

// DeleteOrder removes the order only. Stock records pointing at it are kept
// and show up in reports with placeholder product data.
func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM orders WHERE order_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context, filter OrderListFilter) ([]domain.Order, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1::bigint IS NULL OR personnel_id = $1)
		  AND ($2::bigint IS NULL OR supplier_id = $2)
		ORDER BY order_id ASC
		LIMIT $3 OFFSET $4
	`, filter.PersonnelID, filter.SupplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrderRow(row pgx.Row) (domain.Order, error) {
	var (
		order     domain.Order
		orderDate pgtype.Date
	)
	if err := row.Scan(
		&order.ID,
		&orderDate,
		&order.ProductCode,
		&order.ProductName,
		&order.QuantityOrdered,
		&order.SupplierID,
		&order.PersonnelID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.OrderDate = dateValue(orderDate)
	return order, nil
}

func dateArg(d *domain.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func dateValue(d pgtype.Date) domain.Date {
	if !d.Valid {
		return domain.Date{}
	}
	return domain.DateOf(d.Time)
}

func datePointer(d pgtype.Date) *domain.Date {
	if !d.Valid {
		return nil
	}
	value := domain.DateOf(d.Time)
	return &value
}

func nullableString(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
