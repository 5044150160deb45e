package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest covers caller mistakes caught before any storage is
	// touched: empty carts, non-positive quantities, malformed fields.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTransactionAborted reports a storage-level conflict or timeout.
	// The operation left no effects and is safe to retry unchanged.
	ErrTransactionAborted = errors.New("transaction aborted")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSKUTaken           = errors.New("sku already exists")
	ErrPurchaseNotFound   = errors.New("purchase not found")
)

// ProductNotFoundError identifies the missing product that aborted an
// operation.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError identifies the product whose available quantity
// could not cover the request. The whole checkout is rolled back; the
// caller may retry with an adjusted quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
