package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crm/internal/logger"
	"crm/internal/repository"
)

func setupCS(t *testing.T) *CustomerService {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewCustomerService(repository.NewMemoryCustomers(store), logger.NewNop())
}

func TestCustomer_Create(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)

	c, err := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if c.Email != "a@x.com" {
		t.Fatalf("email mismatch: %v", c.Email)
	}
}

func TestCustomer_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)

	if _, err := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := cs.Create(ctx, CustomerInput{Name: "Other Ann", Email: "a@x.com"})
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	// nothing persisted for the failed call
	all, _ := cs.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(all))
	}
}

func TestCustomer_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)
	if _, err := cs.Create(ctx, CustomerInput{Name: "", Email: "a@x.com"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "nope"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := cs.Create(ctx, CustomerInput{Name: "Ann", Email: "a@x.com", Phone: "xyz"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCustomer_BulkCreate_PartialFailure(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)

	// pre-existing customer for the duplicate row
	if _, err := cs.Create(ctx, CustomerInput{Name: "Pre", Email: "taken@x.com"}); err != nil {
		t.Fatal(err)
	}

	res := cs.BulkCreate(ctx, []CustomerInput{
		{Name: "Ok", Email: "ok@x.com"},
		{Name: "Dup", Email: "taken@x.com"},
		{Name: "", Email: "noname@x.com"},
	})

	if len(res.Created) != 1 {
		t.Fatalf("expected 1 created, got %d", len(res.Created))
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Row 2:") {
		t.Fatalf("expected Row 2 error, got %q", res.Errors[0])
	}
	if !strings.HasPrefix(res.Errors[1], "Row 3:") {
		t.Fatalf("expected Row 3 error, got %q", res.Errors[1])
	}
}

func TestCustomer_BulkCreate_EveryRowHasOneOutcome(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)

	in := []CustomerInput{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "broken"},
		{Name: "C", Email: "c@x.com"},
		{Name: "", Email: "d@x.com"},
		{Name: "E", Email: "a@x.com"},
	}
	res := cs.BulkCreate(ctx, in)
	if len(res.Created)+len(res.Errors) != len(in) {
		t.Fatalf("outcome count mismatch: %d created, %d errors, %d input",
			len(res.Created), len(res.Errors), len(in))
	}
}

func TestCustomer_BulkCreate_IntraBatchDuplicate(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)

	// the same fresh email twice in one batch: the earlier row commits,
	// the later row is rejected against the now-committed state
	res := cs.BulkCreate(ctx, []CustomerInput{
		{Name: "First", Email: "same@x.com"},
		{Name: "Second", Email: "same@x.com"},
	})
	if len(res.Created) != 1 {
		t.Fatalf("expected 1 created, got %d", len(res.Created))
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Row 2:") {
		t.Fatalf("expected Row 2 duplicate error, got %v", res.Errors)
	}
}

func TestCustomer_BulkCreate_EmptyInput(t *testing.T) {
	ctx := context.Background()
	cs := setupCS(t)
	res := cs.BulkCreate(ctx, nil)
	if len(res.Created) != 0 || len(res.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if res.Created == nil || res.Errors == nil {
		t.Fatalf("result lists must be non-nil")
	}
}
