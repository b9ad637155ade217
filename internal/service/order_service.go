package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"crm/internal/domain"
	"crm/internal/logger"
	"crm/internal/repository"
)

var (
	ErrCustomerNotFound        = errors.New("invalid customer id")
	ErrEmptyProductList        = errors.New("at least one product must be selected")
	ErrInvalidProductReference = errors.New("one or more product ids are invalid")
)

// OrderInput данные на создание заказа
type OrderInput struct {
	CustomerID int64
	ProductIDs []int64
	OrderDate  *time.Time
}

// Stats агрегаты для отчёта
type Stats struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// OrderService реализует логику заказов
type OrderService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	tx        repository.TxManager
	log       *logger.Logger
}

func NewOrderService(
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	tx repository.TxManager,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		customers: customers,
		products:  products,
		orders:    orders,
		tx:        tx,
		log:       log.With("service", "OrderService"),
	}
}

// Create проверяет ссылки и атомарно создаёт заказ со снимком суммы.
// Any failed check leaves no order behind.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*domain.Order, error) {
	// rejected before any store lookup
	if len(in.ProductIDs) == 0 {
		return nil, ErrEmptyProductList
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customers.GetByID(ctx, in.CustomerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		products, err := s.products.GetByIDs(ctx, in.ProductIDs)
		if err != nil {
			return err
		}
		// a duplicate id in the request collapses in the lookup and fails
		// here the same way a missing id does
		if len(products) != len(in.ProductIDs) {
			return ErrInvalidProductReference
		}

		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		orderDate := time.Now().UTC()
		if in.OrderDate != nil {
			orderDate = *in.OrderDate
		}

		o := domain.Order{
			CustomerID:  in.CustomerID,
			Products:    products,
			TotalAmount: total,
			OrderDate:   orderDate,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created", "order_id", created.ID,
		"customer_id", created.CustomerID, "total", created.TotalAmount.String())
	return created, nil
}

// GetByID возвращает заказ по id
func (s *OrderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.orders.GetByID(ctx, id)
}

// List возвращает все заказы
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// ListSince returns orders placed at or after cutoff. Used by the reminder job.
func (s *OrderService) ListSince(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	return s.orders.ListSince(ctx, cutoff)
}

// Stats aggregates totals for the periodic report.
func (s *OrderService) Stats(ctx context.Context) (*Stats, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}
	return &Stats{
		TotalCustomers: int64(len(customers)),
		TotalOrders:    int64(len(orders)),
		TotalRevenue:   revenue,
	}, nil
}
