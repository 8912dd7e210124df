package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Principal is the authenticated caller behind a bearer token.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

type Company struct {
	ID        int64     `json:"company_id"`
	Name      string    `json:"name"`
	TaxNumber *string   `json:"tax_number,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Personnel struct {
	ID        int64     `json:"personnel_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CompanyID *int64    `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Personnel) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

type Supplier struct {
	ID        int64     `json:"supplier_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID              int64     `json:"order_id"`
	OrderDate       Date      `json:"order_date"`
	ProductCode     string    `json:"product_code"`
	ProductName     string    `json:"product_name"`
	QuantityOrdered int       `json:"quantity_ordered"`
	SupplierID      int64     `json:"supplier_id"`
	PersonnelID     int64     `json:"personnel_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MaxQuantity is the largest quantity the INTEGER columns can store.
const MaxQuantity = math.MaxInt32

// StockRecord holds the remaining quantity of one stock entry. A record
// without an exit date is open and counts towards available stock.
type StockRecord struct {
	ID        int64     `json:"stock_id"`
	EntryDate Date      `json:"entry_date"`
	ExitDate  *Date     `json:"exit_date"`
	Quantity  int       `json:"quantity"`
	OrderID   int64     `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s StockRecord) Open() bool {
	return s.ExitDate == nil
}

// StockJoin is a stock record together with whatever part of its order,
// supplier and personnel chain still resolves.
type StockJoin struct {
	Stock     StockRecord
	Order     *Order
	Supplier  *Supplier
	Personnel *Personnel
}

type StockSummaryRow struct {
	ProductCode       string `json:"product_code"`
	ProductName       string `json:"product_name"`
	Supplier          string `json:"supplier"`
	TotalQuantity     int    `json:"total_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	LastEntryDate     *Date  `json:"last_entry_date"`
}

type LowStockAlert struct {
	ProductCode       string `json:"product_code"`
	ProductName       string `json:"product_name"`
	Supplier          string `json:"supplier"`
	SupplierPhone     string `json:"supplier_phone"`
	AvailableQuantity int    `json:"available_quantity"`
}

type MovementType string

const (
	MovementEntry MovementType = "entry"
	MovementExit  MovementType = "exit"
)

type MovementEvent struct {
	Date        Date         `json:"date"`
	ProductCode string       `json:"product_code"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	Type        MovementType `json:"type"`
	Personnel   string       `json:"personnel"`
}

// StockEvent is published whenever the ledger changes.
type StockEvent struct {
	Type      string    `json:"type"`
	StockID   int64     `json:"stock_id"`
	OrderID   int64     `json:"order_id"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
	Date      Date      `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	StockEventEntry   = "stock.entry"
	StockEventExit    = "stock.exit"
	StockEventUpdated = "stock.updated"
	StockEventDeleted = "stock.deleted"
)

type StockImportRow struct {
	RowNumber int   `json:"row_number"`
	EntryDate Date  `json:"entry_date"`
	Quantity  int   `json:"quantity"`
	OrderID   int64 `json:"order_id"`
}

type StockImportFailure struct {
	RowNumber int    `json:"row_number"`
	Error     string `json:"error"`
}

type StockImportResult struct {
	TotalRows int                  `json:"total_rows"`
	Created   int                  `json:"created"`
	Failed    []StockImportFailure `json:"failed,omitempty"`
}
