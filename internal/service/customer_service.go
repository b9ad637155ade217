package service

import (
	"context"
	"errors"
	"fmt"

	"crm/internal/domain"
	"crm/internal/logger"
	"crm/internal/repository"
	"crm/internal/validation"
)

// CustomerInput данные кандидата на создание клиента
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// BulkResult carries both outcomes of a bulk creation: every input row
// appears in exactly one of the two lists.
type BulkResult struct {
	Created []domain.Customer `json:"customers"`
	Errors  []string          `json:"errors"`
}

// CustomerService инкапсулирует бизнес-логику вокруг клиентов
type CustomerService struct {
	customers repository.CustomerRepository
	log       *logger.Logger
}

func NewCustomerService(customers repository.CustomerRepository, log *logger.Logger) *CustomerService {
	return &CustomerService{customers: customers, log: log.With("service", "CustomerService")}
}

// Create validates the candidate and persists it. A taken email fails with
// repository.ErrDuplicateEmail and nothing is persisted.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := validation.Customer(in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByEmail(ctx, in.Email); err == nil {
		return nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	c := domain.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.customers.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// BulkCreate processes the rows in order and never fails as a whole: each
// row either lands in Created or contributes a 1-indexed entry to Errors.
// A row that succeeds stays committed regardless of later failures, and its
// email immediately counts as taken for the rows after it.
func (s *CustomerService) BulkCreate(ctx context.Context, in []CustomerInput) BulkResult {
	res := BulkResult{
		Created: []domain.Customer{},
		Errors:  []string{},
	}
	for i, row := range in {
		c, err := s.Create(ctx, row)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", i+1, err.Error()))
			continue
		}
		res.Created = append(res.Created, *c)
	}
	s.log.Info("bulk customer creation finished",
		"total", len(in), "created", len(res.Created), "failed", len(res.Errors))
	return res
}

// List возвращает всех клиентов
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}
