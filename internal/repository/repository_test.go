package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/db"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// projectRoot walks up from this file to the directory holding go.mod.
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// setupTestDB migrates a fresh schema on TEST_DATABASE_URL and drops it
// when the test ends. Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	if root := projectRoot(); root != "" {
		_ = godotenv.Load(filepath.Join(root, ".env"))
	}
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("stock_test_%d", time.Now().UnixNano())
	quoted := pgx.Identifier{schema}.Sanitize()

	admin, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+quoted); err != nil {
		admin.Close(ctx)
		t.Fatalf("create schema: %v", err)
	}
	admin.Close(ctx)

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("parse database url: %v", err)
	}
	cfg.MaxConns = 10
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		cleanup, err := pgx.Connect(context.Background(), databaseURL)
		if err != nil {
			t.Logf("reconnect for cleanup: %v", err)
			return
		}
		defer cleanup.Close(context.Background())
		if _, err := cleanup.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+quoted+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
	})

	if err := db.RunMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return New(pool)
}

func createTestOrder(t *testing.T, repo *Repository, code string, supplierID, personnelID int64) domain.Order {
	t.Helper()
	order, err := repo.CreateOrder(context.Background(), OrderInput{
		OrderDate:       domain.NewDate(2023, time.January, 1),
		ProductCode:     code,
		ProductName:     "Product " + code,
		QuantityOrdered: 100,
		SupplierID:      supplierID,
		PersonnelID:     personnelID,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func createTestStock(t *testing.T, repo *Repository, orderID int64, entry domain.Date, qty int) domain.StockRecord {
	t.Helper()
	record, err := repo.CreateStock(context.Background(), StockInput{
		EntryDate: entry,
		Quantity:  qty,
		OrderID:   orderID,
	})
	if err != nil {
		t.Fatalf("CreateStock: %v", err)
	}
	return record
}

func TestDecrementStock(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := createTestOrder(t, repo, "P1", 1, 1)
	record := createTestStock(t, repo, order.ID, domain.NewDate(2023, time.January, 2), 50)
	exitDate := domain.NewDate(2023, time.January, 5)

	updated, err := repo.DecrementStock(ctx, record.ID, exitDate, 20)
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	if updated.Quantity != 30 {
		t.Fatalf("quantity = %d, want 30", updated.Quantity)
	}
	if updated.ExitDate == nil || *updated.ExitDate != exitDate {
		t.Fatalf("exit date = %v, want %v", updated.ExitDate, exitDate)
	}

	_, err = repo.DecrementStock(ctx, record.ID, domain.NewDate(2023, time.January, 9), 31)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("overdraw: expected ErrInsufficientStock, got %v", err)
	}
	stored, err := repo.GetStock(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if stored.Quantity != 30 || stored.ExitDate == nil || *stored.ExitDate != exitDate {
		t.Fatalf("rejected exit changed the record: %+v", stored)
	}

	if _, err := repo.DecrementStock(ctx, record.ID+1000, exitDate, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: expected ErrNotFound, got %v", err)
	}
}

func TestDecrementStockConcurrentNeverOverdraws(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := createTestOrder(t, repo, "P1", 1, 1)
	record := createTestStock(t, repo, order.ID, domain.NewDate(2023, time.January, 2), 10)
	exitDate := domain.NewDate(2023, time.January, 3)

	const attempts = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecrementStock(ctx, record.ID, exitDate, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("DecrementStock: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 || insufficient != attempts-10 {
		t.Fatalf("succeeded = %d, insufficient = %d", succeeded, insufficient)
	}
	stored, err := repo.GetStock(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if stored.Quantity != 0 {
		t.Fatalf("quantity = %d, want 0", stored.Quantity)
	}
}

func TestListStockJoins(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	supplier, err := repo.CreateSupplier(ctx, SupplierInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	personnel, err := repo.CreatePersonnel(ctx, PersonnelInput{
		FirstName: "Ayse",
		LastName:  "Yilmaz",
		Email:     "ayse@example.com",
		Role:      domain.RoleStaff,
	})
	if err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}

	kept := createTestOrder(t, repo, "P1", supplier.ID, personnel.ID)
	dropped := createTestOrder(t, repo, "P2", supplier.ID, personnel.ID)

	// Entered before the window and leaves inside it.
	exited := createTestStock(t, repo, kept.ID, domain.NewDate(2023, time.January, 1), 50)
	if _, err := repo.DecrementStock(ctx, exited.ID, domain.NewDate(2023, time.June, 15), 20); err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	// Entered before the window, never left.
	createTestStock(t, repo, kept.ID, domain.NewDate(2023, time.January, 1), 5)
	orphan := createTestStock(t, repo, dropped.ID, domain.NewDate(2023, time.June, 1), 7)
	if err := repo.DeleteOrder(ctx, dropped.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}

	all, err := repo.ListStockJoins(ctx, StockJoinFilter{})
	if err != nil {
		t.Fatalf("ListStockJoins: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 joined rows, got %d", len(all))
	}
	first := all[0]
	if first.Order == nil || first.Order.ProductCode != "P1" {
		t.Fatalf("order not joined: %+v", first)
	}
	if first.Supplier == nil || first.Supplier.Name != "Acme" {
		t.Fatalf("supplier not joined: %+v", first.Supplier)
	}
	if first.Personnel == nil || first.Personnel.DisplayName() != "Ayse Yilmaz" {
		t.Fatalf("personnel not joined: %+v", first.Personnel)
	}
	last := all[2]
	if last.Stock.ID != orphan.ID || last.Order != nil || last.Supplier != nil || last.Personnel != nil {
		t.Fatalf("stock of a deleted order should come back without joins: %+v", last)
	}

	from := domain.NewDate(2023, time.June, 10)
	to := domain.NewDate(2023, time.June, 30)
	windowed, err := repo.ListStockJoins(ctx, StockJoinFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("ListStockJoins window: %v", err)
	}
	if len(windowed) != 1 || windowed[0].Stock.ID != exited.ID {
		t.Fatalf("expected only the exit inside the window, got %+v", windowed)
	}
	if windowed[0].Stock.Quantity != 30 {
		t.Fatalf("quantity = %d, want 30", windowed[0].Stock.Quantity)
	}

	bounds := domain.NewDate(2023, time.June, 1)
	edge, err := repo.ListStockJoins(ctx, StockJoinFilter{From: &bounds, To: &bounds})
	if err != nil {
		t.Fatalf("ListStockJoins edge: %v", err)
	}
	if len(edge) != 1 || edge[0].Stock.ID != orphan.ID {
		t.Fatalf("window bounds should be inclusive, got %+v", edge)
	}
}

func TestRoleOf(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	if _, err := repo.CreatePersonnel(ctx, PersonnelInput{
		FirstName: "Mina",
		LastName:  "Kaya",
		Email:     "Mina.Kaya@Example.com",
		Role:      domain.RoleManager,
	}); err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}

	role, err := repo.RoleOf(ctx, domain.Principal{Email: "mina.kaya@example.com"})
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != domain.RoleManager {
		t.Fatalf("role = %q, want manager", role)
	}

	for _, email := range []string{"stranger@example.com", "  "} {
		if _, err := repo.RoleOf(ctx, domain.Principal{Email: email}); !errors.Is(err, ErrNotFound) {
			t.Errorf("RoleOf(%q): expected ErrNotFound, got %v", email, err)
		}
	}

	_, err = repo.CreatePersonnel(ctx, PersonnelInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "MINA.KAYA@example.com",
		Role:      domain.RoleStaff,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}
}

func TestOrderCRUD(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := createTestOrder(t, repo, "P1", 3, 4)

	got, err := repo.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.ProductCode != "P1" || got.OrderDate != domain.NewDate(2023, time.January, 1) {
		t.Fatalf("unexpected order %+v", got)
	}

	createTestOrder(t, repo, "P2", 5, 4)
	supplierID := int64(5)
	bySupplier, err := repo.ListOrders(ctx, OrderListFilter{SupplierID: &supplierID})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(bySupplier) != 1 || bySupplier[0].ProductCode != "P2" {
		t.Fatalf("supplier filter returned %+v", bySupplier)
	}

	if err := repo.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := repo.GetOrder(ctx, order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted order: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteOrder(ctx, order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
