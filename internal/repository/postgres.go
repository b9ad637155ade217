package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crm/internal/domain"
	"crm/internal/logger"
)

// PostgresStore держит соединение gorm; репозитории — типы-обёртки, как и для memory
type PostgresStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresStore(dsn string, log *logger.Logger) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&domain.Customer{}, &domain.Product{}, &domain.Order{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &PostgresStore{db: db, log: log.With("component", "PostgresStore")}, nil
}

// gormTxKey carries the open transaction through the context so repositories
// used inside TxManager.WithTransaction join it transparently.
type gormTxKey struct{}

func (s *PostgresStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db
}

// CustomerRepository
type PostgresCustomers struct{ store *PostgresStore }

func NewPostgresCustomers(store *PostgresStore) *PostgresCustomers {
	return &PostgresCustomers{store: store}
}

var _ CustomerRepository = (*PostgresCustomers)(nil)

func (pc *PostgresCustomers) Create(ctx context.Context, c *domain.Customer) error {
	err := pc.store.conn(ctx).WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (pc *PostgresCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := pc.store.conn(ctx).WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (pc *PostgresCustomers) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	err := pc.store.conn(ctx).WithContext(ctx).Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (pc *PostgresCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	if err := pc.store.conn(ctx).WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ProductRepository
type PostgresProducts struct{ store *PostgresStore }

func NewPostgresProducts(store *PostgresStore) *PostgresProducts {
	return &PostgresProducts{store: store}
}

var _ ProductRepository = (*PostgresProducts)(nil)

func (pp *PostgresProducts) Create(ctx context.Context, p *domain.Product) error {
	return pp.store.conn(ctx).WithContext(ctx).Create(p).Error
}

func (pp *PostgresProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := pp.store.conn(ctx).WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pp *PostgresProducts) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	var out []domain.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := pp.store.conn(ctx).WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (pp *PostgresProducts) Update(ctx context.Context, p *domain.Product) error {
	res := pp.store.conn(ctx).WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{"name": p.Name, "price": p.Price, "stock": p.Stock})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (pp *PostgresProducts) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := pp.store.conn(ctx).WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (pp *PostgresProducts) ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	var out []domain.Product
	if err := pp.store.conn(ctx).WithContext(ctx).Where("stock < ?", threshold).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// OrderRepository
type PostgresOrders struct{ store *PostgresStore }

func NewPostgresOrders(store *PostgresStore) *PostgresOrders {
	return &PostgresOrders{store: store}
}

var _ OrderRepository = (*PostgresOrders)(nil)

func (po *PostgresOrders) Create(ctx context.Context, o *domain.Order) error {
	// only the join rows are written for the product references, the
	// products themselves are not upserted
	return po.store.conn(ctx).WithContext(ctx).Omit("Products.*").Create(o).Error
}

func (po *PostgresOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := po.store.conn(ctx).WithContext(ctx).
		Preload("Products").Preload("Customer").
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (po *PostgresOrders) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := po.store.conn(ctx).WithContext(ctx).
		Preload("Products").Preload("Customer").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (po *PostgresOrders) ListSince(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := po.store.conn(ctx).WithContext(ctx).
		Preload("Products").Preload("Customer").
		Where("order_date >= ?", cutoff).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TxManager backed by a gorm transaction.
type PostgresTx struct{ store *PostgresStore }

func NewPostgresTx(store *PostgresStore) *PostgresTx { return &PostgresTx{store: store} }

var _ TxManager = (*PostgresTx)(nil)

func (t *PostgresTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}
