package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"crm/internal/domain"
	"crm/internal/logger"
	"crm/internal/repository"
	"crm/internal/validation"
)

var (
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidStock     = errors.New("stock cannot be negative")
	ErrInvalidThreshold = errors.New("threshold cannot be negative")
	ErrInvalidIncrement = errors.New("increment must be positive")
)

// ProductInput данные кандидата на создание товара
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int64
}

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	products repository.ProductRepository
	tx       repository.TxManager
	log      *logger.Logger
}

func NewProductService(products repository.ProductRepository, tx repository.TxManager, log *logger.Logger) *ProductService {
	return &ProductService{products: products, tx: tx, log: log.With("service", "ProductService")}
}

// Create persists a product after the price/stock guards; stock defaults
// to zero at the input layer.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if err := validation.Product(in.Name, in.Price, in.Stock); err != nil {
		return nil, err
	}
	p := domain.Product{Name: in.Name, Price: in.Price, Stock: in.Stock}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List возвращает все товары
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// RestockLowStock bumps every product with stock below threshold by
// increment, atomically, and returns the updated products. The increment
// must be positive so stock can never drop below zero.
func (s *ProductService) RestockLowStock(ctx context.Context, threshold, increment int64) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, ErrInvalidThreshold
	}
	if increment <= 0 {
		return nil, ErrInvalidIncrement
	}
	var updated []domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		low, err := s.products.ListLowStock(ctx, threshold)
		if err != nil {
			return err
		}
		updated = make([]domain.Product, 0, len(low))
		for _, p := range low {
			p.Stock += increment
			if err := s.products.Update(ctx, &p); err != nil {
				return err
			}
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("low-stock restock finished", "updated", len(updated),
		"threshold", threshold, "increment", increment)
	return updated, nil
}
