package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a completed checkout. It is append-only: once created its
// total and items are never mutated, and TotalAmount always equals the sum
// of its items' subtotals.
type Purchase struct {
	ID           string          `json:"id" db:"id"`
	UserID       string          `json:"user_id" db:"user_id"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	PurchaseDate time.Time       `json:"purchase_date" db:"purchase_date"`
	Items        []PurchaseItem  `json:"items,omitempty"`
}

// NewPurchase creates a new Purchase with a generated id.
func NewPurchase(userID string, totalAmount decimal.Decimal) *Purchase {
	return &Purchase{
		ID:           uuid.New().String(),
		UserID:       userID,
		TotalAmount:  totalAmount,
		PurchaseDate: time.Now(),
	}
}

// PurchaseItem is one line of a purchase. UnitPrice and Subtotal are frozen
// copies of the product price at purchase time, decoupled from later price
// changes.
type PurchaseItem struct {
	ID         string          `json:"id" db:"id"`
	PurchaseID string          `json:"purchase_id" db:"purchase_id"`
	ProductID  string          `json:"product_id" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// NewPurchaseItem creates a line item, computing the subtotal from the
// captured unit price.
func NewPurchaseItem(purchaseID, productID string, quantity int, unitPrice decimal.Decimal) *PurchaseItem {
	return &PurchaseItem{
		ID:         uuid.New().String(),
		PurchaseID: purchaseID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Subtotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// CheckoutItem is one requested cart entry.
type CheckoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CheckoutRequest is the transient cart submitted to the checkout engine.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" binding:"required"`
}
