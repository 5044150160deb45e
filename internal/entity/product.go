package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is exact decimal (DECIMAL(10,2) in
// storage) and QuantityAvailable never goes below zero: the checkout path
// decrements it only behind a row lock plus a conditional update.
type Product struct {
	ID                string          `json:"id" db:"id"`
	SKU               string          `json:"sku" db:"sku"`
	Name              string          `json:"name" db:"name"`
	Price             decimal.Decimal `json:"price" db:"price"`
	QuantityAvailable int             `json:"quantity_available" db:"quantity_available"`
	EntryDate         time.Time       `json:"entry_date" db:"entry_date"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new Product with a generated id.
func NewProduct(sku, name string, price decimal.Decimal, quantityAvailable int) *Product {
	now := time.Now()
	return &Product{
		ID:                uuid.New().String(),
		SKU:               sku,
		Name:              name,
		Price:             price,
		QuantityAvailable: quantityAvailable,
		EntryDate:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
