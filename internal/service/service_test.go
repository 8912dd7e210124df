package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository/memstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.StockEvent
	err    error
}

func (p *recordingPublisher) PublishStockEvent(_ context.Context, event domain.StockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc       *Service
	store     *memstore.Store
	publisher *recordingPublisher
	supplier  domain.Supplier
	personnel domain.Personnel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	publisher := &recordingPublisher{}
	svc := New(store, publisher, nil)

	phone := "555-0100"
	supplier, err := svc.CreateSupplier(ctx, repository.SupplierInput{Name: "Acme", Phone: &phone})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	personnel, err := svc.CreatePersonnel(ctx, repository.PersonnelInput{
		FirstName: "Ayse",
		LastName:  "Yilmaz",
		Email:     "ayse@example.com",
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}
	return &fixture{svc: svc, store: store, publisher: publisher, supplier: supplier, personnel: personnel}
}

func (f *fixture) order(t *testing.T, code, name string) domain.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), repository.OrderInput{
		OrderDate:       domain.NewDate(2024, time.January, 10),
		ProductCode:     code,
		ProductName:     name,
		QuantityOrdered: 100,
		SupplierID:      f.supplier.ID,
		PersonnelID:     f.personnel.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func (f *fixture) entry(t *testing.T, orderID int64, date domain.Date, qty int) domain.StockRecord {
	t.Helper()
	record, err := f.svc.CreateEntry(context.Background(), date, qty, orderID)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	return record
}

func (f *fixture) exit(t *testing.T, id int64, date domain.Date, qty int) {
	t.Helper()
	if _, err := f.svc.RecordExit(context.Background(), id, date, qty); err != nil {
		t.Fatalf("RecordExit: %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	valid := repository.OrderInput{
		OrderDate:       domain.NewDate(2024, time.January, 1),
		ProductCode:     "P1",
		ProductName:     "Bolt",
		QuantityOrdered: 5,
		SupplierID:      f.supplier.ID,
		PersonnelID:     f.personnel.ID,
	}

	tests := []struct {
		name   string
		mutate func(*repository.OrderInput)
	}{
		{"missing date", func(in *repository.OrderInput) { in.OrderDate = domain.Date{} }},
		{"blank code", func(in *repository.OrderInput) { in.ProductCode = "  " }},
		{"missing name", func(in *repository.OrderInput) { in.ProductName = "" }},
		{"zero quantity", func(in *repository.OrderInput) { in.QuantityOrdered = 0 }},
		{"negative quantity", func(in *repository.OrderInput) { in.QuantityOrdered = -3 }},
		{"quantity too large", func(in *repository.OrderInput) { in.QuantityOrdered = domain.MaxQuantity + 1 }},
		{"missing supplier", func(in *repository.OrderInput) { in.SupplierID = 0 }},
		{"missing personnel", func(in *repository.OrderInput) { in.PersonnelID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			if _, err := f.svc.CreateOrder(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	orders, _ := f.svc.ListOrders(context.Background(), repository.OrderListFilter{})
	if len(orders) != 0 {
		t.Fatalf("rejected orders must not be stored, found %d", len(orders))
	}
}

func TestOrderRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.order(t, " P1 ", "Bolt")
	if created.ProductCode != "P1" {
		t.Fatalf("product code not trimmed: %q", created.ProductCode)
	}

	got, err := f.svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.ProductName != "Bolt" || got.QuantityOrdered != 100 || got.OrderDate != created.OrderDate {
		t.Fatalf("unexpected order %+v", got)
	}

	if _, err := f.svc.GetOrder(ctx, 9999); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := f.svc.DeleteOrder(ctx, created.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if err := f.svc.DeleteOrder(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCreateEntryRoundTrip(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	date := domain.NewDate(2024, time.March, 1)

	record := f.entry(t, order.ID, date, 50)
	got, err := f.svc.GetStock(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if got.Quantity != 50 || got.EntryDate != date || got.OrderID != order.ID || !got.Open() {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestCreateEntryRejects(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	date := domain.NewDate(2024, time.March, 1)
	ctx := context.Background()

	if _, err := f.svc.CreateEntry(ctx, date, 0, order.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero quantity: expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, domain.Date{}, 5, order.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing date: expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, date, 5, 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing order: expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, date, 5, 777); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("unknown order: expected ErrOrderNotFound, got %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, date, domain.MaxQuantity+1, order.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("quantity past column range: expected ErrValidation, got %v", err)
	}
	if len(f.publisher.types()) != 0 {
		t.Errorf("rejected entries must not publish events")
	}
}

func TestRecordExit(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	record := f.entry(t, order.ID, domain.NewDate(2024, time.March, 1), 50)
	exitDate := domain.NewDate(2024, time.March, 5)

	updated, err := f.svc.RecordExit(context.Background(), record.ID, exitDate, 20)
	if err != nil {
		t.Fatalf("RecordExit: %v", err)
	}
	if updated.Quantity != 30 {
		t.Fatalf("quantity = %d, want 30", updated.Quantity)
	}
	if updated.ExitDate == nil || *updated.ExitDate != exitDate {
		t.Fatalf("exit date = %v, want %v", updated.ExitDate, exitDate)
	}
}

func TestRecordExitInsufficient(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	record := f.entry(t, order.ID, domain.NewDate(2024, time.March, 1), 10)
	ctx := context.Background()

	_, err := f.svc.RecordExit(ctx, record.ID, domain.NewDate(2024, time.March, 5), 11)
	if !errors.Is(err, domain.ErrInsufficientStock) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, _ := f.svc.GetStock(ctx, record.ID)
	if got.Quantity != 10 || !got.Open() {
		t.Fatalf("record changed after rejected exit: %+v", got)
	}

	if _, err := f.svc.RecordExit(ctx, 4242, domain.NewDate(2024, time.March, 5), 1); !errors.Is(err, domain.ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
	if _, err := f.svc.RecordExit(ctx, record.ID, domain.NewDate(2024, time.March, 5), 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero exit, got %v", err)
	}
}

func TestRecordExitConcurrentNeverOverdraws(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	record := f.entry(t, order.ID, domain.NewDate(2024, time.March, 1), 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RecordExit(context.Background(), record.ID, domain.NewDate(2024, time.March, 2), 1)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := f.svc.GetStock(context.Background(), record.ID)
	if succeeded != 10 || got.Quantity != 0 {
		t.Fatalf("succeeded=%d quantity=%d, want 10 and 0", succeeded, got.Quantity)
	}
}

func TestStockEventsPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.order(t, "P1", "Bolt")
	record := f.entry(t, order.ID, domain.NewDate(2024, time.March, 1), 50)
	f.exit(t, record.ID, domain.NewDate(2024, time.March, 2), 20)

	if _, err := f.svc.UpdateStock(ctx, record.ID, repository.StockInput{
		EntryDate: domain.NewDate(2024, time.March, 1),
		Quantity:  25,
		OrderID:   order.ID,
	}); err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if err := f.svc.DeleteStock(ctx, record.ID); err != nil {
		t.Fatalf("DeleteStock: %v", err)
	}

	want := []string{domain.StockEventEntry, domain.StockEventExit, domain.StockEventUpdated, domain.StockEventDeleted}
	got := f.publisher.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	exitEvent := f.publisher.events[1]
	if exitEvent.Quantity != 20 || exitEvent.Remaining != 30 {
		t.Fatalf("unexpected exit event %+v", exitEvent)
	}
}

func TestPublishFailureDoesNotFailLedger(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	order := f.order(t, "P1", "Bolt")

	if _, err := f.svc.CreateEntry(context.Background(), domain.NewDate(2024, time.March, 1), 5, order.ID); err != nil {
		t.Fatalf("CreateEntry should succeed when publishing fails: %v", err)
	}
}

func TestUpdateStockValidation(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	record := f.entry(t, order.ID, domain.NewDate(2024, time.March, 1), 5)
	ctx := context.Background()

	if _, err := f.svc.UpdateStock(ctx, record.ID, repository.StockInput{
		EntryDate: domain.NewDate(2024, time.March, 1), Quantity: -1, OrderID: order.ID,
	}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative quantity: expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.UpdateStock(ctx, record.ID, repository.StockInput{
		EntryDate: domain.NewDate(2024, time.March, 1), Quantity: 1, OrderID: 555,
	}); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("unknown order: expected ErrOrderNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateStock(ctx, 999, repository.StockInput{
		EntryDate: domain.NewDate(2024, time.March, 1), Quantity: 1, OrderID: order.ID,
	}); !errors.Is(err, domain.ErrStockNotFound) {
		t.Errorf("unknown stock: expected ErrStockNotFound, got %v", err)
	}
}

func TestImportEntries(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	date := domain.NewDate(2024, time.March, 1)

	result, err := f.svc.ImportEntries(context.Background(), []domain.StockImportRow{
		{RowNumber: 2, EntryDate: date, Quantity: 10, OrderID: order.ID},
		{RowNumber: 3, EntryDate: date, Quantity: 0, OrderID: order.ID},
		{RowNumber: 4, EntryDate: date, Quantity: 5, OrderID: 404},
		{RowNumber: 5, EntryDate: date, Quantity: 7, OrderID: order.ID},
	})
	if err != nil {
		t.Fatalf("ImportEntries: %v", err)
	}
	if result.TotalRows != 4 || result.Created != 2 || len(result.Failed) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Failed[0].RowNumber != 3 || result.Failed[1].RowNumber != 4 {
		t.Fatalf("unexpected failed rows %+v", result.Failed)
	}

	if _, err := f.svc.ImportEntries(context.Background(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty import: expected ErrValidation, got %v", err)
	}
}

func TestCreatePersonnelValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input repository.PersonnelInput
		want  error
	}{
		{"missing names", repository.PersonnelInput{Email: "a@example.com"}, domain.ErrValidation},
		{"bad email", repository.PersonnelInput{FirstName: "A", LastName: "B", Email: "nope"}, domain.ErrValidation},
		{"bad role", repository.PersonnelInput{FirstName: "A", LastName: "B", Email: "a@example.com", Role: "owner"}, domain.ErrValidation},
		{"duplicate email", repository.PersonnelInput{FirstName: "A", LastName: "B", Email: "AYSE@example.com"}, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreatePersonnel(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	p, err := f.svc.CreatePersonnel(ctx, repository.PersonnelInput{FirstName: "Can", LastName: "Demir", Email: "can@example.com"})
	if err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}
	if p.Role != domain.RoleStaff {
		t.Fatalf("default role = %q, want staff", p.Role)
	}
}

func TestQuantityUpperBound(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "P1", "Bolt")
	ctx := context.Background()
	date := domain.NewDate(2024, time.March, 1)

	record, err := f.svc.CreateEntry(ctx, date, domain.MaxQuantity, order.ID)
	if err != nil {
		t.Fatalf("CreateEntry at the limit: %v", err)
	}
	if _, err := f.svc.RecordExit(ctx, record.ID, date, domain.MaxQuantity+1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("RecordExit: expected ErrValidation, got %v", err)
	}
	_, err = f.svc.UpdateStock(ctx, record.ID, repository.StockInput{
		EntryDate: date,
		Quantity:  domain.MaxQuantity + 1,
		OrderID:   order.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateStock: expected ErrValidation, got %v", err)
	}

	stored, err := f.svc.GetStock(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if stored.Quantity != domain.MaxQuantity {
		t.Fatalf("quantity = %d, want %d", stored.Quantity, domain.MaxQuantity)
	}
}
