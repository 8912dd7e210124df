package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CompanyInput struct {
	Name      string
	TaxNumber *string
	Phone     *string
	Address   *string
	Email     *string
}

type PersonnelInput struct {
	FirstName string
	LastName  string
	Phone     *string
	Email     string
	Role      domain.Role
	CompanyID *int64
}

type SupplierInput struct {
	Name    string
	Phone   *string
	Address *string
	Email   *string
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError turns constraint violations into domain errors so the
// HTTP layer can answer 409/400 instead of 500.
func translatePgError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: duplicate value", domain.ErrConflict, action)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: referenced record does not exist", domain.ErrValidation, action)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

const companyColumns = `company_id, name, tax_number, phone, address, email, created_at`

func (r *Repository) CreateCompany(ctx context.Context, input CompanyInput) (domain.Company, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO companies (name, tax_number, phone, address, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyColumns,
		strings.TrimSpace(input.Name),
		nullableString(input.TaxNumber),
		nullableString(input.Phone),
		nullableString(input.Address),
		nullableString(input.Email),
	)
	company, err := scanCompanyRow(row)
	if err != nil {
		return domain.Company{}, translatePgError(err, "create company")
	}
	return company, nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_id = $1`, id)
	company, err := scanCompanyRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company %d: %w", id, err)
	}
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, id int64, input CompanyInput) (*domain.Company, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE companies
		SET name = $2, tax_number = $3, phone = $4, address = $5, email = $6
		WHERE company_id = $1
		RETURNING `+companyColumns,
		id,
		strings.TrimSpace(input.Name),
		nullableString(input.TaxNumber),
		nullableString(input.Phone),
		nullableString(input.Address),
		nullableString(input.Email),
	)
	company, err := scanCompanyRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translatePgError(err, fmt.Sprintf("update company %d", id))
	}
	return &company, nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM companies WHERE company_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete company %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		ORDER BY company_id ASC
		LIMIT $1 OFFSET $2
	`, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Company, 0)
	for rows.Next() {
		company, err := scanCompanyRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return items, nil
}

func scanCompanyRow(row pgx.Row) (domain.Company, error) {
	var company domain.Company
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.TaxNumber,
		&company.Phone,
		&company.Address,
		&company.Email,
		&company.CreatedAt,
	)
	return company, err
}

const personnelColumns = `personnel_id, first_name, last_name, phone, email, role, company_id, created_at`

func (r *Repository) CreatePersonnel(ctx context.Context, input PersonnelInput) (domain.Personnel, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO personnel (first_name, last_name, phone, email, role, company_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+personnelColumns,
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		nullableString(input.Phone),
		strings.TrimSpace(input.Email),
		string(input.Role),
		input.CompanyID,
	)
	personnel, err := scanPersonnelRow(row)
	if err != nil {
		return domain.Personnel{}, translatePgError(err, "create personnel")
	}
	return personnel, nil
}

func (r *Repository) GetPersonnel(ctx context.Context, id int64) (*domain.Personnel, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+personnelColumns+` FROM personnel WHERE personnel_id = $1`, id)
	personnel, err := scanPersonnelRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get personnel %d: %w", id, err)
	}
	return &personnel, nil
}

func (r *Repository) UpdatePersonnel(ctx context.Context, id int64, input PersonnelInput) (*domain.Personnel, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE personnel
		SET first_name = $2, last_name = $3, phone = $4, email = $5, role = $6, company_id = $7
		WHERE personnel_id = $1
		RETURNING `+personnelColumns,
		id,
		strings.TrimSpace(input.FirstName),
		strings.TrimSpace(input.LastName),
		nullableString(input.Phone),
		strings.TrimSpace(input.Email),
		string(input.Role),
		input.CompanyID,
	)
	personnel, err := scanPersonnelRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translatePgError(err, fmt.Sprintf("update personnel %d", id))
	}
	return &personnel, nil
}

func (r *Repository) DeletePersonnel(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM personnel WHERE personnel_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete personnel %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListPersonnel(ctx context.Context, companyID *int64, limit, offset int) ([]domain.Personnel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+personnelColumns+`
		FROM personnel
		WHERE ($1::bigint IS NULL OR company_id = $1)
		ORDER BY personnel_id ASC
		LIMIT $2 OFFSET $3
	`, companyID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Personnel, 0)
	for rows.Next() {
		personnel, err := scanPersonnelRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, personnel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personnel: %w", err)
	}
	return items, nil
}

// RoleOf resolves the caller's role through the personnel row registered
// under the same email address.
func (r *Repository) RoleOf(ctx context.Context, principal domain.Principal) (domain.Role, error) {
	email := strings.TrimSpace(principal.Email)
	if email == "" {
		return "", ErrNotFound
	}
	var role string
	err := r.pool.QueryRow(ctx,
		"SELECT role FROM personnel WHERE LOWER(email) = LOWER($1)",
		email,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup role for %s: %w", email, err)
	}
	if role == "" {
		return domain.RoleStaff, nil
	}
	return domain.Role(role), nil
}

func scanPersonnelRow(row pgx.Row) (domain.Personnel, error) {
	var (
		personnel domain.Personnel
		role      string
	)
	if err := row.Scan(
		&personnel.ID,
		&personnel.FirstName,
		&personnel.LastName,
		&personnel.Phone,
		&personnel.Email,
		&role,
		&personnel.CompanyID,
		&personnel.CreatedAt,
	); err != nil {
		return domain.Personnel{}, err
	}
	personnel.Role = domain.Role(role)
	return personnel, nil
}

const supplierColumns = `supplier_id, name, phone, address, email, created_at`

func (r *Repository) CreateSupplier(ctx context.Context, input SupplierInput) (domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, phone, address, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+supplierColumns,
		strings.TrimSpace(input.Name),
		nullableString(input.Phone),
		nullableString(input.Address),
		nullableString(input.Email),
	)
	supplier, err := scanSupplierRow(row)
	if err != nil {
		return domain.Supplier{}, translatePgError(err, "create supplier")
	}
	return supplier, nil
}

func (r *Repository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE supplier_id = $1`, id)
	supplier, err := scanSupplierRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get supplier %d: %w", id, err)
	}
	return &supplier, nil
}

func (r *Repository) UpdateSupplier(ctx context.Context, id int64, input SupplierInput) (*domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $2, phone = $3, address = $4, email = $5
		WHERE supplier_id = $1
		RETURNING `+supplierColumns,
		id,
		strings.TrimSpace(input.Name),
		nullableString(input.Phone),
		nullableString(input.Address),
		nullableString(input.Email),
	)
	supplier, err := scanSupplierRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translatePgError(err, fmt.Sprintf("update supplier %d", id))
	}
	return &supplier, nil
}

func (r *Repository) DeleteSupplier(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM suppliers WHERE supplier_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete supplier %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		ORDER BY supplier_id ASC
		LIMIT $1 OFFSET $2
	`, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Supplier, 0)
	for rows.Next() {
		supplier, err := scanSupplierRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return items, nil
}

func scanSupplierRow(row pgx.Row) (domain.Supplier, error) {
	var supplier domain.Supplier
	err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Phone,
		&supplier.Address,
		&supplier.Email,
		&supplier.CreatedAt,
	)
	return supplier, err
}
