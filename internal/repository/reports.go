package repository

import (
	"context"
	"fmt"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

// StockJoinFilter narrows the joined read to records with an entry or an
// exit date inside [From, To]. Nil bounds read everything.
type StockJoinFilter struct {
	From *domain.Date
	To   *domain.Date
}

// ListStockJoins reads every stock record with its order, supplier and
// personnel in one round trip. Broken references come back as nil parts
// rather than dropping the stock row.
func (r *Repository) ListStockJoins(ctx context.Context, filter StockJoinFilter) ([]domain.StockJoin, error) {
	query := `
		SELECT
			s.stock_id,
			s.entry_date,
			s.exit_date,
			s.quantity,
			s.order_id,
			s.created_at,
			s.updated_at,
			o.order_id,
			o.order_date,
			o.product_code,
			o.product_name,
			o.quantity_ordered,
			o.supplier_id,
			o.personnel_id,
			sp.supplier_id,
			sp.name,
			sp.phone,
			p.personnel_id,
			p.first_name,
			p.last_name,
			p.email,
			p.role
		FROM stock s
		LEFT JOIN orders o ON o.order_id = s.order_id
		LEFT JOIN suppliers sp ON sp.supplier_id = o.supplier_id
		LEFT JOIN personnel p ON p.personnel_id = o.personnel_id
	`
	args := []any{}
	if filter.From != nil && filter.To != nil {
		query += `
		WHERE s.entry_date BETWEEN $1 AND $2
		   OR s.exit_date BETWEEN $1 AND $2
		`
		args = append(args, dateArg(filter.From), dateArg(filter.To))
	}
	query += " ORDER BY s.stock_id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock joins: %w", err)
	}
	defer rows.Close()

	result := make([]domain.StockJoin, 0)
	for rows.Next() {
		var (
			join      domain.StockJoin
			entryDate pgtype.Date
			exitDate  pgtype.Date

			orderID         *int64
			orderDate       pgtype.Date
			productCode     *string
			productName     *string
			quantityOrdered *int
			supplierRef     *int64
			personnelRef    *int64

			supplierID    *int64
			supplierName  *string
			supplierPhone *string

			personnelID *int64
			firstName   *string
			lastName    *string
			email       *string
			role        *string
		)
		if err := rows.Scan(
			&join.Stock.ID,
			&entryDate,
			&exitDate,
			&join.Stock.Quantity,
			&join.Stock.OrderID,
			&join.Stock.CreatedAt,
			&join.Stock.UpdatedAt,
			&orderID,
			&orderDate,
			&productCode,
			&productName,
			&quantityOrdered,
			&supplierRef,
			&personnelRef,
			&supplierID,
			&supplierName,
			&supplierPhone,
			&personnelID,
			&firstName,
			&lastName,
			&email,
			&role,
		); err != nil {
			return nil, fmt.Errorf("scan stock join: %w", err)
		}
		join.Stock.EntryDate = dateValue(entryDate)
		join.Stock.ExitDate = datePointer(exitDate)

		if orderID != nil {
			join.Order = &domain.Order{
				ID:              *orderID,
				OrderDate:       dateValue(orderDate),
				ProductCode:     deref(productCode),
				ProductName:     deref(productName),
				QuantityOrdered: derefInt(quantityOrdered),
				SupplierID:      derefInt64(supplierRef),
				PersonnelID:     derefInt64(personnelRef),
			}
		}
		if supplierID != nil {
			join.Supplier = &domain.Supplier{
				ID:    *supplierID,
				Name:  deref(supplierName),
				Phone: supplierPhone,
			}
		}
		if personnelID != nil {
			join.Personnel = &domain.Personnel{
				ID:        *personnelID,
				FirstName: deref(firstName),
				LastName:  deref(lastName),
				Email:     deref(email),
				Role:      domain.Role(deref(role)),
			}
		}
		result = append(result, join)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock joins: %w", err)
	}
	return result, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func derefInt64(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}
