package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const stockColumns = `
	stock_id,
	entry_date,
	exit_date,
	quantity,
	order_id,
	created_at,
	updated_at
`

func (r *Repository) CreateStock(ctx context.Context, input StockInput) (domain.StockRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stock (entry_date, exit_date, quantity, order_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+stockColumns,
		dateArg(&input.EntryDate),
		dateArg(input.ExitDate),
		input.Quantity,
		input.OrderID,
	)
	record, err := scanStockRow(row)
	if err != nil {
		return domain.StockRecord{}, fmt.Errorf("create stock entry: %w", err)
	}
	return record, nil
}

func (r *Repository) GetStock(ctx context.Context, id int64) (*domain.StockRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock WHERE stock_id = $1`, id)
	record, err := scanStockRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get stock entry %d: %w", id, err)
	}
	return &record, nil
}

func (r *Repository) UpdateStock(ctx context.Context, id int64, input StockInput) (*domain.StockRecord, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stock
		SET
			entry_date = $2,
			exit_date = $3,
			quantity = $4,
			order_id = $5,
			updated_at = NOW()
		WHERE stock_id = $1
		RETURNING `+stockColumns,
		id,
		dateArg(&input.EntryDate),
		dateArg(input.ExitDate),
		input.Quantity,
		input.OrderID,
	)
	record, err := scanStockRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update stock entry %d: %w", id, err)
	}
	return &record, nil
}

// DecrementStock applies an exit as one conditional UPDATE, so two
// concurrent exits can never both subtract from the same prior quantity.
// When nothing matches it tells a missing record apart from one that holds
// less than qty.
func (r *Repository) DecrementStock(ctx context.Context, id int64, exitDate domain.Date, qty int) (*domain.StockRecord, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stock
		SET
			quantity = quantity - $2,
			exit_date = $3,
			updated_at = NOW()
		WHERE stock_id = $1 AND quantity >= $2
		RETURNING `+stockColumns,
		id,
		qty,
		dateArg(&exitDate),
	)
	record, err := scanStockRow(row)
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("record exit for stock entry %d: %w", id, err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM stock WHERE stock_id = $1)",
		id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check stock entry %d: %w", id, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

func (r *Repository) DeleteStock(ctx context.Context, id int64) (*domain.StockRecord, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM stock WHERE stock_id = $1 RETURNING `+stockColumns, id)
	record, err := scanStockRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete stock entry %d: %w", id, err)
	}
	return &record, nil
}

func (r *Repository) ListStocks(ctx context.Context, filter StockListFilter) ([]domain.StockRecord, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock
		WHERE ($1::bigint IS NULL OR order_id = $1)
		  AND (NOT $2::boolean OR exit_date IS NULL)
		ORDER BY stock_id ASC
		LIMIT $3 OFFSET $4
	`, filter.OrderID, filter.OpenOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	records := make([]domain.StockRecord, 0)
	for rows.Next() {
		record, err := scanStockRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock entries: %w", err)
	}
	return records, nil
}

func scanStockRow(row pgx.Row) (domain.StockRecord, error) {
	var (
		record    domain.StockRecord
		entryDate pgtype.Date
		exitDate  pgtype.Date
	)
	if err := row.Scan(
		&record.ID,
		&entryDate,
		&exitDate,
		&record.Quantity,
		&record.OrderID,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return domain.StockRecord{}, err
	}
	record.EntryDate = dateValue(entryDate)
	record.ExitDate = datePointer(exitDate)
	return record, nil
}
