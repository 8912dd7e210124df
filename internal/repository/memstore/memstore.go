// Package memstore keeps orders, stock and master data in process memory.
// It mirrors the Postgres repository closely enough to drive service and
// handler tests without a database.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
)

type Store struct {
	mu sync.Mutex

	nextID    int64
	orders    map[int64]domain.Order
	stock     map[int64]domain.StockRecord
	companies map[int64]domain.Company
	personnel map[int64]domain.Personnel
	suppliers map[int64]domain.Supplier

	now func() time.Time
}

func New() *Store {
	return &Store{
		orders:    make(map[int64]domain.Order),
		stock:     make(map[int64]domain.StockRecord),
		companies: make(map[int64]domain.Company),
		personnel: make(map[int64]domain.Personnel),
		suppliers: make(map[int64]domain.Supplier),
		now:       time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return make([]T, 0)
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) CreateOrder(_ context.Context, input repository.OrderInput) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	order := domain.Order{
		ID:              s.id(),
		OrderDate:       input.OrderDate,
		ProductCode:     strings.TrimSpace(input.ProductCode),
		ProductName:     strings.TrimSpace(input.ProductName),
		QuantityOrdered: input.QuantityOrdered,
		SupplierID:      input.SupplierID,
		PersonnelID:     input.PersonnelID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &order, nil
}

func (s *Store) UpdateOrder(_ context.Context, id int64, input repository.OrderInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	order.OrderDate = input.OrderDate
	order.ProductCode = strings.TrimSpace(input.ProductCode)
	order.ProductName = strings.TrimSpace(input.ProductName)
	order.QuantityOrdered = input.QuantityOrdered
	order.SupplierID = input.SupplierID
	order.PersonnelID = input.PersonnelID
	order.UpdatedAt = s.now()
	s.orders[id] = order
	return &order, nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) ListOrders(_ context.Context, filter repository.OrderListFilter) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Order, 0)
	for _, id := range sortedIDs(s.orders) {
		order := s.orders[id]
		if filter.PersonnelID != nil && order.PersonnelID != *filter.PersonnelID {
			continue
		}
		if filter.SupplierID != nil && order.SupplierID != *filter.SupplierID {
			continue
		}
		items = append(items, order)
	}
	return page(items, filter.Limit, filter.Offset), nil
}

func copyDate(d *domain.Date) *domain.Date {
	if d == nil {
		return nil
	}
	value := *d
	return &value
}

func (s *Store) CreateStock(_ context.Context, input repository.StockInput) (domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record := domain.StockRecord{
		ID:        s.id(),
		EntryDate: input.EntryDate,
		ExitDate:  copyDate(input.ExitDate),
		Quantity:  input.Quantity,
		OrderID:   input.OrderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.stock[record.ID] = record
	return record, nil
}

func (s *Store) GetStock(_ context.Context, id int64) (*domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	record.ExitDate = copyDate(record.ExitDate)
	return &record, nil
}

func (s *Store) UpdateStock(_ context.Context, id int64, input repository.StockInput) (*domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	record.EntryDate = input.EntryDate
	record.ExitDate = copyDate(input.ExitDate)
	record.Quantity = input.Quantity
	record.OrderID = input.OrderID
	record.UpdatedAt = s.now()
	s.stock[id] = record
	return &record, nil
}

// DecrementStock checks and subtracts under one lock, matching the
// conditional UPDATE of the Postgres repository.
func (s *Store) DecrementStock(_ context.Context, id int64, exitDate domain.Date, qty int) (*domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if record.Quantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	record.Quantity -= qty
	record.ExitDate = &exitDate
	record.UpdatedAt = s.now()
	s.stock[id] = record

	out := record
	out.ExitDate = copyDate(record.ExitDate)
	return &out, nil
}

func (s *Store) DeleteStock(_ context.Context, id int64) (*domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.stock, id)
	return &record, nil
}

func (s *Store) ListStocks(_ context.Context, filter repository.StockListFilter) ([]domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.StockRecord, 0)
	for _, id := range sortedIDs(s.stock) {
		record := s.stock[id]
		if filter.OrderID != nil && record.OrderID != *filter.OrderID {
			continue
		}
		if filter.OpenOnly && !record.Open() {
			continue
		}
		record.ExitDate = copyDate(record.ExitDate)
		items = append(items, record)
	}
	return page(items, filter.Limit, filter.Offset), nil
}

func (s *Store) ListStockJoins(_ context.Context, filter repository.StockJoinFilter) ([]domain.StockJoin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.StockJoin, 0)
	for _, id := range sortedIDs(s.stock) {
		record := s.stock[id]
		record.ExitDate = copyDate(record.ExitDate)
		if filter.From != nil && filter.To != nil {
			entryIn := record.EntryDate.Within(*filter.From, *filter.To)
			exitIn := record.ExitDate != nil && record.ExitDate.Within(*filter.From, *filter.To)
			if !entryIn && !exitIn {
				continue
			}
		}

		join := domain.StockJoin{Stock: record}
		if order, ok := s.orders[record.OrderID]; ok {
			join.Order = &order
			if supplier, ok := s.suppliers[order.SupplierID]; ok {
				join.Supplier = &supplier
			}
			if personnel, ok := s.personnel[order.PersonnelID]; ok {
				join.Personnel = &personnel
			}
		}
		result = append(result, join)
	}
	return result, nil
}

func (s *Store) CreateCompany(_ context.Context, input repository.CompanyInput) (domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company := domain.Company{
		ID:        s.id(),
		Name:      input.Name,
		TaxNumber: input.TaxNumber,
		Phone:     input.Phone,
		Address:   input.Address,
		Email:     input.Email,
		CreatedAt: s.now(),
	}
	s.companies[company.ID] = company
	return company, nil
}

func (s *Store) GetCompany(_ context.Context, id int64) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &company, nil
}

func (s *Store) UpdateCompany(_ context.Context, id int64, input repository.CompanyInput) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	company.Name = input.Name
	company.TaxNumber = input.TaxNumber
	company.Phone = input.Phone
	company.Address = input.Address
	company.Email = input.Email
	s.companies[id] = company
	return &company, nil
}

func (s *Store) DeleteCompany(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.companies, id)
	for pid, p := range s.personnel {
		if p.CompanyID != nil && *p.CompanyID == id {
			p.CompanyID = nil
			s.personnel[pid] = p
		}
	}
	return nil
}

func (s *Store) ListCompanies(_ context.Context, limit, offset int) ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Company, 0, len(s.companies))
	for _, id := range sortedIDs(s.companies) {
		items = append(items, s.companies[id])
	}
	return page(items, limit, offset), nil
}

func (s *Store) emailTaken(email string, except int64) bool {
	for id, p := range s.personnel {
		if id != except && strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) CreatePersonnel(_ context.Context, input repository.PersonnelInput) (domain.Personnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(input.Email, 0) {
		return domain.Personnel{}, domain.ErrConflict
	}
	personnel := domain.Personnel{
		ID:        s.id(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
		Role:      input.Role,
		CompanyID: input.CompanyID,
		CreatedAt: s.now(),
	}
	s.personnel[personnel.ID] = personnel
	return personnel, nil
}

func (s *Store) GetPersonnel(_ context.Context, id int64) (*domain.Personnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	personnel, ok := s.personnel[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &personnel, nil
}

func (s *Store) UpdatePersonnel(_ context.Context, id int64, input repository.PersonnelInput) (*domain.Personnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	personnel, ok := s.personnel[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if s.emailTaken(input.Email, id) {
		return nil, domain.ErrConflict
	}
	personnel.FirstName = input.FirstName
	personnel.LastName = input.LastName
	personnel.Phone = input.Phone
	personnel.Email = input.Email
	personnel.Role = input.Role
	personnel.CompanyID = input.CompanyID
	s.personnel[id] = personnel
	return &personnel, nil
}

func (s *Store) DeletePersonnel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.personnel[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.personnel, id)
	return nil
}

func (s *Store) ListPersonnel(_ context.Context, companyID *int64, limit, offset int) ([]domain.Personnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Personnel, 0)
	for _, id := range sortedIDs(s.personnel) {
		p := s.personnel[id]
		if companyID != nil && (p.CompanyID == nil || *p.CompanyID != *companyID) {
			continue
		}
		items = append(items, p)
	}
	return page(items, limit, offset), nil
}

func (s *Store) RoleOf(_ context.Context, principal domain.Principal) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.TrimSpace(principal.Email)
	if email == "" {
		return "", repository.ErrNotFound
	}
	for _, p := range s.personnel {
		if strings.EqualFold(p.Email, email) {
			if p.Role == "" {
				return domain.RoleStaff, nil
			}
			return p.Role, nil
		}
	}
	return "", repository.ErrNotFound
}

func (s *Store) CreateSupplier(_ context.Context, input repository.SupplierInput) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier := domain.Supplier{
		ID:        s.id(),
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Email:     input.Email,
		CreatedAt: s.now(),
	}
	s.suppliers[supplier.ID] = supplier
	return supplier, nil
}

func (s *Store) GetSupplier(_ context.Context, id int64) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, ok := s.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &supplier, nil
}

func (s *Store) UpdateSupplier(_ context.Context, id int64, input repository.SupplierInput) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, ok := s.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	supplier.Name = input.Name
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.Email = input.Email
	s.suppliers[id] = supplier
	return &supplier, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

func (s *Store) ListSuppliers(_ context.Context, limit, offset int) ([]domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Supplier, 0, len(s.suppliers))
	for _, id := range sortedIDs(s.suppliers) {
		items = append(items, s.suppliers[id])
	}
	return page(items, limit, offset), nil
}
