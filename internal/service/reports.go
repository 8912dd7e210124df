package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
)

const DefaultLowStockThreshold = 10

const (
	unknownProduct  = "Unknown Product"
	unknownSupplier = "Unknown Supplier"
	unknownPhone    = "N/A"
	unknown         = "Unknown"
)

func (s *Service) StockSummary(ctx context.Context) ([]domain.StockSummaryRow, error) {
	joins, err := s.store.ListStockJoins(ctx, repository.StockJoinFilter{})
	if err != nil {
		return nil, err
	}
	return SummarizeStock(joins), nil
}

// LowStockAlerts lists products whose available quantity is below
// threshold. A threshold of zero or less means the default of 10.
func (s *Service) LowStockAlerts(ctx context.Context, threshold int) ([]domain.LowStockAlert, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	joins, err := s.store.ListStockJoins(ctx, repository.StockJoinFilter{})
	if err != nil {
		return nil, err
	}
	return LowStockAlerts(joins, threshold), nil
}

func (s *Service) StockMovement(ctx context.Context, start, end domain.Date) ([]domain.MovementEvent, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start date and end date are required", domain.ErrValidation)
	}
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("%w: start date must not be after end date", domain.ErrValidation)
	}
	joins, err := s.store.ListStockJoins(ctx, repository.StockJoinFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	return StockMovements(joins, start, end), nil
}

func productKey(join domain.StockJoin) (string, bool) {
	if join.Order == nil || join.Order.ProductCode == "" {
		return "", false
	}
	return join.Order.ProductCode, true
}

func productName(join domain.StockJoin, fallback string) string {
	if join.Order == nil || join.Order.ProductName == "" {
		return fallback
	}
	return join.Order.ProductName
}

func supplierName(join domain.StockJoin) string {
	if join.Supplier == nil || join.Supplier.Name == "" {
		return unknownSupplier
	}
	return join.Supplier.Name
}

func supplierPhone(join domain.StockJoin) string {
	if join.Supplier == nil || join.Supplier.Phone == nil || *join.Supplier.Phone == "" {
		return unknownPhone
	}
	return *join.Supplier.Phone
}

func personnelName(join domain.StockJoin) string {
	if join.Personnel == nil {
		return unknown
	}
	return join.Personnel.DisplayName()
}

// SummarizeStock groups stock records by product code. Total quantity sums
// every record, available quantity only the open ones. Records whose order
// no longer resolves have no product code and are skipped. Display fields
// come from the first record seen for a product.
func SummarizeStock(joins []domain.StockJoin) []domain.StockSummaryRow {
	byCode := make(map[string]*domain.StockSummaryRow)
	for _, join := range joins {
		code, ok := productKey(join)
		if !ok {
			continue
		}
		row, exists := byCode[code]
		if !exists {
			row = &domain.StockSummaryRow{
				ProductCode: code,
				ProductName: productName(join, unknownProduct),
				Supplier:    supplierName(join),
			}
			byCode[code] = row
		}

		row.TotalQuantity += join.Stock.Quantity
		if join.Stock.Open() {
			row.AvailableQuantity += join.Stock.Quantity
		}
		if entry := join.Stock.EntryDate; !entry.IsZero() {
			if row.LastEntryDate == nil || entry.Compare(*row.LastEntryDate) > 0 {
				last := entry
				row.LastEntryDate = &last
			}
		}
	}

	result := make([]domain.StockSummaryRow, 0, len(byCode))
	for _, row := range byCode {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductCode < result[j].ProductCode
	})
	return result
}

// LowStockAlerts groups like SummarizeStock and keeps the products whose
// available quantity is strictly below threshold. A product whose records
// are all closed is reported with zero available; a product that never had
// a stock record cannot appear.
func LowStockAlerts(joins []domain.StockJoin, threshold int) []domain.LowStockAlert {
	byCode := make(map[string]*domain.LowStockAlert)
	for _, join := range joins {
		code, ok := productKey(join)
		if !ok {
			continue
		}
		alert, exists := byCode[code]
		if !exists {
			alert = &domain.LowStockAlert{
				ProductCode:   code,
				ProductName:   productName(join, unknownProduct),
				Supplier:      supplierName(join),
				SupplierPhone: supplierPhone(join),
			}
			byCode[code] = alert
		}
		if join.Stock.Open() {
			alert.AvailableQuantity += join.Stock.Quantity
		}
	}

	result := make([]domain.LowStockAlert, 0)
	for _, alert := range byCode {
		if alert.AvailableQuantity < threshold {
			result = append(result, *alert)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductCode < result[j].ProductCode
	})
	return result
}

// StockMovements emits an entry event for every record entered inside
// [start, end] and an exit event for every record exited inside it, sorted
// by date. Events for the same date keep stock id order, entry before exit.
func StockMovements(joins []domain.StockJoin, start, end domain.Date) []domain.MovementEvent {
	events := make([]domain.MovementEvent, 0)
	for _, join := range joins {
		code := unknown
		if join.Order != nil && join.Order.ProductCode != "" {
			code = join.Order.ProductCode
		}
		name := productName(join, unknown)
		personnel := personnelName(join)

		if entry := join.Stock.EntryDate; !entry.IsZero() && entry.Within(start, end) {
			events = append(events, domain.MovementEvent{
				Date:        entry,
				ProductCode: code,
				ProductName: name,
				Quantity:    join.Stock.Quantity,
				Type:        domain.MovementEntry,
				Personnel:   personnel,
			})
		}
		if exit := join.Stock.ExitDate; exit != nil && exit.Within(start, end) {
			events = append(events, domain.MovementEvent{
				Date:        *exit,
				ProductCode: code,
				ProductName: name,
				Quantity:    join.Stock.Quantity,
				Type:        domain.MovementExit,
				Personnel:   personnel,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Compare(events[j].Date) < 0
	})
	return events
}
