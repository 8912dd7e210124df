package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"

	"go.uber.org/zap"
)

func (s *Service) requireOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return fmt.Errorf("%w: order_id is required", domain.ErrValidation)
	}
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	return nil
}

// CreateEntry books received stock against an order. Receiving more than
// the order asked for is allowed.
func (s *Service) CreateEntry(ctx context.Context, entryDate domain.Date, quantity int, orderID int64) (domain.StockRecord, error) {
	if entryDate.IsZero() {
		return domain.StockRecord{}, fmt.Errorf("%w: entry_date is required", domain.ErrValidation)
	}
	if quantity <= 0 {
		return domain.StockRecord{}, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	if quantity > domain.MaxQuantity {
		return domain.StockRecord{}, fmt.Errorf("%w: quantity cannot exceed %d", domain.ErrValidation, domain.MaxQuantity)
	}
	if err := s.requireOrder(ctx, orderID); err != nil {
		return domain.StockRecord{}, err
	}

	record, err := s.store.CreateStock(ctx, repository.StockInput{
		EntryDate: entryDate,
		Quantity:  quantity,
		OrderID:   orderID,
	})
	if err != nil {
		return domain.StockRecord{}, err
	}

	s.publish(ctx, domain.StockEvent{
		Type:      domain.StockEventEntry,
		StockID:   record.ID,
		OrderID:   record.OrderID,
		Quantity:  quantity,
		Remaining: record.Quantity,
		Date:      record.EntryDate,
		Timestamp: time.Now().UTC(),
	})
	return record, nil
}

// RecordExit takes exitQuantity out of a stock record and stamps the exit
// date. Taking more than the record holds fails with ErrInsufficientStock
// and leaves the record untouched.
func (s *Service) RecordExit(ctx context.Context, id int64, exitDate domain.Date, exitQuantity int) (*domain.StockRecord, error) {
	if exitDate.IsZero() {
		return nil, fmt.Errorf("%w: exit_date is required", domain.ErrValidation)
	}
	if exitQuantity <= 0 {
		return nil, fmt.Errorf("%w: exit quantity must be a positive integer", domain.ErrValidation)
	}
	if exitQuantity > domain.MaxQuantity {
		return nil, fmt.Errorf("%w: exit quantity cannot exceed %d", domain.ErrValidation, domain.MaxQuantity)
	}

	record, err := s.store.DecrementStock(ctx, id, exitDate, exitQuantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			s.logger.Info("stock exit rejected",
				zap.Int64("stock_id", id),
				zap.Int("exit_quantity", exitQuantity),
			)
			return nil, err
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}

	s.publish(ctx, domain.StockEvent{
		Type:      domain.StockEventExit,
		StockID:   record.ID,
		OrderID:   record.OrderID,
		Quantity:  exitQuantity,
		Remaining: record.Quantity,
		Date:      exitDate,
		Timestamp: time.Now().UTC(),
	})
	return record, nil
}

func (s *Service) GetStock(ctx context.Context, id int64) (*domain.StockRecord, error) {
	record, err := s.store.GetStock(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrStockNotFound
	}
	return record, err
}

// UpdateStock rewrites every field of a stock record, including the order
// it points at.
func (s *Service) UpdateStock(ctx context.Context, id int64, input repository.StockInput) (*domain.StockRecord, error) {
	if input.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry_date is required", domain.ErrValidation)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}
	if input.Quantity > domain.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity cannot exceed %d", domain.ErrValidation, domain.MaxQuantity)
	}
	if input.ExitDate != nil && input.ExitDate.IsZero() {
		input.ExitDate = nil
	}
	if err := s.requireOrder(ctx, input.OrderID); err != nil {
		return nil, err
	}

	record, err := s.store.UpdateStock(ctx, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}

	s.publish(ctx, domain.StockEvent{
		Type:      domain.StockEventUpdated,
		StockID:   record.ID,
		OrderID:   record.OrderID,
		Quantity:  record.Quantity,
		Remaining: record.Quantity,
		Date:      record.EntryDate,
		Timestamp: time.Now().UTC(),
	})
	return record, nil
}

func (s *Service) DeleteStock(ctx context.Context, id int64) error {
	record, err := s.store.DeleteStock(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrStockNotFound
		}
		return err
	}

	s.publish(ctx, domain.StockEvent{
		Type:      domain.StockEventDeleted,
		StockID:   record.ID,
		OrderID:   record.OrderID,
		Quantity:  record.Quantity,
		Date:      record.EntryDate,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (s *Service) ListStocks(ctx context.Context, filter repository.StockListFilter) ([]domain.StockRecord, error) {
	return s.store.ListStocks(ctx, filter)
}

// ImportEntries creates one stock entry per spreadsheet row. A bad row is
// reported with its row number and does not stop the rest of the batch;
// storage failures do.
func (s *Service) ImportEntries(ctx context.Context, rows []domain.StockImportRow) (domain.StockImportResult, error) {
	result := domain.StockImportResult{TotalRows: len(rows)}
	if len(rows) == 0 {
		return result, fmt.Errorf("%w: import file has no data rows", domain.ErrValidation)
	}

	for _, row := range rows {
		_, err := s.CreateEntry(ctx, row.EntryDate, row.Quantity, row.OrderID)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
			result.Failed = append(result.Failed, domain.StockImportFailure{
				RowNumber: row.RowNumber,
				Error:     err.Error(),
			})
		default:
			return result, fmt.Errorf("import row %d: %w", row.RowNumber, err)
		}
	}
	return result, nil
}
