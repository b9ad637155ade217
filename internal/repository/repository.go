package repository

import (
	"context"
	"errors"
	"time"

	"crm/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a customer email is already taken.
var ErrDuplicateEmail = errors.New("email already exists")

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDs resolves ids in one lookup; missing ids are simply absent
	// from the result, duplicates collapse to one row.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}

// TxManager абстракция транзакции. Для in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
