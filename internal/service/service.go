package service

import (
	"context"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"

	"go.uber.org/zap"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, input repository.OrderInput) (domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, input repository.OrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]domain.Order, error)
}

type StockStore interface {
	CreateStock(ctx context.Context, input repository.StockInput) (domain.StockRecord, error)
	GetStock(ctx context.Context, id int64) (*domain.StockRecord, error)
	UpdateStock(ctx context.Context, id int64, input repository.StockInput) (*domain.StockRecord, error)
	DecrementStock(ctx context.Context, id int64, exitDate domain.Date, qty int) (*domain.StockRecord, error)
	DeleteStock(ctx context.Context, id int64) (*domain.StockRecord, error)
	ListStocks(ctx context.Context, filter repository.StockListFilter) ([]domain.StockRecord, error)
	ListStockJoins(ctx context.Context, filter repository.StockJoinFilter) ([]domain.StockJoin, error)
}

type MasterDataStore interface {
	CreateCompany(ctx context.Context, input repository.CompanyInput) (domain.Company, error)
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	UpdateCompany(ctx context.Context, id int64, input repository.CompanyInput) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id int64) error
	ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error)

	CreatePersonnel(ctx context.Context, input repository.PersonnelInput) (domain.Personnel, error)
	GetPersonnel(ctx context.Context, id int64) (*domain.Personnel, error)
	UpdatePersonnel(ctx context.Context, id int64, input repository.PersonnelInput) (*domain.Personnel, error)
	DeletePersonnel(ctx context.Context, id int64) error
	ListPersonnel(ctx context.Context, companyID *int64, limit, offset int) ([]domain.Personnel, error)

	CreateSupplier(ctx context.Context, input repository.SupplierInput) (domain.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, input repository.SupplierInput) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error)
}

// Store is everything the service needs from persistence. The pgx
// repository and the in-memory store both satisfy it.
type Store interface {
	OrderStore
	StockStore
	MasterDataStore
}

// EventPublisher receives ledger changes. Publishing is best effort: a
// failure is logged and never fails the ledger operation.
type EventPublisher interface {
	PublishStockEvent(ctx context.Context, event domain.StockEvent) error
}

type Service struct {
	store     Store
	publisher EventPublisher
	logger    *zap.Logger
}

func New(store Store, publisher EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, publisher: publisher, logger: logger}
}

func (s *Service) publish(ctx context.Context, event domain.StockEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStockEvent(ctx, event); err != nil {
		s.logger.Warn("publish stock event failed",
			zap.String("type", event.Type),
			zap.Int64("stock_id", event.StockID),
			zap.Error(err),
		)
	}
}

func normalizeNullable(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
