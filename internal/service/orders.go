package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
)

func validateOrderInput(input *repository.OrderInput) error {
	input.ProductCode = strings.TrimSpace(input.ProductCode)
	input.ProductName = strings.TrimSpace(input.ProductName)

	var missing []string
	if input.OrderDate.IsZero() {
		missing = append(missing, "order_date")
	}
	if input.ProductCode == "" {
		missing = append(missing, "product_code")
	}
	if input.ProductName == "" {
		missing = append(missing, "product_name")
	}
	if input.SupplierID <= 0 {
		missing = append(missing, "supplier_id")
	}
	if input.PersonnelID <= 0 {
		missing = append(missing, "personnel_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if input.QuantityOrdered <= 0 {
		return fmt.Errorf("%w: quantity_ordered must be a positive integer", domain.ErrValidation)
	}
	if input.QuantityOrdered > domain.MaxQuantity {
		return fmt.Errorf("%w: quantity_ordered cannot exceed %d", domain.ErrValidation, domain.MaxQuantity)
	}
	return nil
}

func (s *Service) CreateOrder(ctx context.Context, input repository.OrderInput) (domain.Order, error) {
	if err := validateOrderInput(&input); err != nil {
		return domain.Order{}, err
	}
	return s.store.CreateOrder(ctx, input)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

// UpdateOrder rewrites the order in place. Stock records created from it
// keep pointing at the same id and are not touched.
func (s *Service) UpdateOrder(ctx context.Context, id int64, input repository.OrderInput) (*domain.Order, error) {
	if err := validateOrderInput(&input); err != nil {
		return nil, err
	}
	order, err := s.store.UpdateOrder(ctx, id, input)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	err := s.store.DeleteOrder(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrOrderNotFound
	}
	return err
}

func (s *Service) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]domain.Order, error) {
	return s.store.ListOrders(ctx, filter)
}
