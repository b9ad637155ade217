package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a CRM contact. Email is unique across all customers.
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog item. Stock is adjusted by the restock job only.
type Product struct {
	ID    int64           `json:"id" gorm:"primaryKey"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Stock int64           `json:"stock"`
}

// Order references one customer and a non-empty set of products.
// TotalAmount is a snapshot of the referenced product prices at creation
// time and is never recomputed.
type Order struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	CustomerID  int64           `json:"customer_id"`
	Customer    *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Products    []Product       `json:"products" gorm:"many2many:order_products"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	OrderDate   time.Time       `json:"order_date"`
}
