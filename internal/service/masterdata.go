package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
)

func notFound(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}

func validateCompany(input *repository.CompanyInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	input.TaxNumber = normalizeNullable(input.TaxNumber)
	input.Phone = normalizeNullable(input.Phone)
	input.Address = normalizeNullable(input.Address)
	input.Email = normalizeNullable(input.Email)
	return nil
}

func (s *Service) CreateCompany(ctx context.Context, input repository.CompanyInput) (domain.Company, error) {
	if err := validateCompany(&input); err != nil {
		return domain.Company{}, err
	}
	return s.store.CreateCompany(ctx, input)
}

func (s *Service) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	company, err := s.store.GetCompany(ctx, id)
	return company, notFound(err, "company not found")
}

func (s *Service) UpdateCompany(ctx context.Context, id int64, input repository.CompanyInput) (*domain.Company, error) {
	if err := validateCompany(&input); err != nil {
		return nil, err
	}
	company, err := s.store.UpdateCompany(ctx, id, input)
	return company, notFound(err, "company not found")
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	return notFound(s.store.DeleteCompany(ctx, id), "company not found")
}

func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	return s.store.ListCompanies(ctx, limit, offset)
}

func validatePersonnel(input *repository.PersonnelInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = normalizeNullable(input.Phone)

	var missing []string
	if input.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if input.LastName == "" {
		missing = append(missing, "last_name")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return fmt.Errorf("%w: email format is invalid", domain.ErrValidation)
	}
	if input.Role == "" {
		input.Role = domain.RoleStaff
	}
	if !input.Role.Valid() {
		return fmt.Errorf("%w: role must be one of admin, manager, staff", domain.ErrValidation)
	}
	return nil
}

func (s *Service) CreatePersonnel(ctx context.Context, input repository.PersonnelInput) (domain.Personnel, error) {
	if err := validatePersonnel(&input); err != nil {
		return domain.Personnel{}, err
	}
	return s.store.CreatePersonnel(ctx, input)
}

func (s *Service) GetPersonnel(ctx context.Context, id int64) (*domain.Personnel, error) {
	personnel, err := s.store.GetPersonnel(ctx, id)
	return personnel, notFound(err, "personnel not found")
}

func (s *Service) UpdatePersonnel(ctx context.Context, id int64, input repository.PersonnelInput) (*domain.Personnel, error) {
	if err := validatePersonnel(&input); err != nil {
		return nil, err
	}
	personnel, err := s.store.UpdatePersonnel(ctx, id, input)
	return personnel, notFound(err, "personnel not found")
}

func (s *Service) DeletePersonnel(ctx context.Context, id int64) error {
	return notFound(s.store.DeletePersonnel(ctx, id), "personnel not found")
}

func (s *Service) ListPersonnel(ctx context.Context, companyID *int64, limit, offset int) ([]domain.Personnel, error) {
	return s.store.ListPersonnel(ctx, companyID, limit, offset)
}

func validateSupplier(input *repository.SupplierInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	input.Phone = normalizeNullable(input.Phone)
	input.Address = normalizeNullable(input.Address)
	input.Email = normalizeNullable(input.Email)
	return nil
}

func (s *Service) CreateSupplier(ctx context.Context, input repository.SupplierInput) (domain.Supplier, error) {
	if err := validateSupplier(&input); err != nil {
		return domain.Supplier{}, err
	}
	return s.store.CreateSupplier(ctx, input)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	supplier, err := s.store.GetSupplier(ctx, id)
	return supplier, notFound(err, "supplier not found")
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, input repository.SupplierInput) (*domain.Supplier, error) {
	if err := validateSupplier(&input); err != nil {
		return nil, err
	}
	supplier, err := s.store.UpdateSupplier(ctx, id, input)
	return supplier, notFound(err, "supplier not found")
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	return notFound(s.store.DeleteSupplier(ctx, id), "supplier not found")
}

func (s *Service) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	return s.store.ListSuppliers(ctx, limit, offset)
}
