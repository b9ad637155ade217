package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crm/internal/logger"
	"crm/internal/repository"
)

func setup(t *testing.T) (*CustomerService, *ProductService, *OrderService) {
	t.Helper()
	store := repository.NewMemoryStore()
	customers := repository.NewMemoryCustomers(store)
	orders := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)
	log := logger.NewNop()
	cs := NewCustomerService(customers, log)
	ps := NewProductService(store, tx, log)
	os := NewOrderService(customers, store, orders, tx, log)
	return cs, ps, os
}

func TestCreateOrder_SnapshotTotal(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, err := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	p1, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})
	p2, _ := ps.Create(ctx, ProductInput{Name: "Gadget", Price: decimal.RequireFromString("7.50"), Stock: 1})

	o, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p1.ID, p2.ID}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	want := decimal.RequireFromString("12.50")
	if !o.TotalAmount.Equal(want) {
		t.Fatalf("total expected %s, got %s", want, o.TotalAmount)
	}
	if len(o.Products) != 2 {
		t.Fatalf("expected 2 product refs, got %d", len(o.Products))
	}
	if o.OrderDate.IsZero() {
		t.Fatalf("expected default order date")
	}
}

func TestCreateOrder_TotalIsSnapshot(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	p, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})

	o, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p.ID}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// price change after creation must not affect the stored total
	p.Price = decimal.RequireFromString("100.00")
	store := os.products
	if err := store.Update(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, err := os.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("total recomputed: %s", got.TotalAmount)
	}
}

func TestCreateOrder_SuppliedDate(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	p, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})

	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p.ID}, OrderDate: &when})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !o.OrderDate.Equal(when) {
		t.Fatalf("expected supplied date, got %v", o.OrderDate)
	}
}

func TestCreateOrder_CustomerNotFound(t *testing.T) {
	ctx := context.Background()
	_, ps, os := setup(t)
	p, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})

	_, err := os.Create(ctx, OrderInput{CustomerID: 42, ProductIDs: []int64{p.ID}})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestCreateOrder_EmptyProductList(t *testing.T) {
	ctx := context.Background()
	cs, _, os := setup(t)
	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})

	_, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: nil})
	if !errors.Is(err, ErrEmptyProductList) {
		t.Fatalf("expected empty product list, got %v", err)
	}
}

func TestCreateOrder_InvalidProductReference(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	p, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})

	// one valid id among the set is not enough
	_, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p.ID, 999}})
	if !errors.Is(err, ErrInvalidProductReference) {
		t.Fatalf("expected invalid product reference, got %v", err)
	}

	// no partial order persisted
	all, _ := os.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no orders, got %d", len(all))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	p1, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})
	p2, _ := ps.Create(ctx, ProductInput{Name: "Gadget", Price: decimal.RequireFromString("7.50"), Stock: 1})

	if _, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p1.ID}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p1.ID, p2.ID}}); err != nil {
		t.Fatal(err)
	}

	stats, err := os.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCustomers != 1 || stats.TotalOrders != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if !stats.TotalRevenue.Equal(decimal.RequireFromString("17.50")) {
		t.Fatalf("revenue expected 17.50, got %s", stats.TotalRevenue)
	}
}

func TestListSince(t *testing.T) {
	ctx := context.Background()
	cs, ps, os := setup(t)

	c, _ := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	p, _ := ps.Create(ctx, ProductInput{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 1})

	old := time.Now().UTC().Add(-30 * 24 * time.Hour)
	if _, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p.ID}, OrderDate: &old}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Create(ctx, OrderInput{CustomerID: c.ID, ProductIDs: []int64{p.ID}}); err != nil {
		t.Fatal(err)
	}

	recent, err := os.ListSince(ctx, time.Now().UTC().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent order, got %d", len(recent))
	}
	if recent[0].Customer == nil || recent[0].Customer.Email != "a@x.com" {
		t.Fatalf("expected customer attached, got %+v", recent[0].Customer)
	}
}
