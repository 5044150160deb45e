package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPurchase(t *testing.T) {
	total := decimal.RequireFromString("1725.50")
	purchase := NewPurchase("user-456", total)

	if purchase.ID == "" {
		t.Error("expected non-empty purchase ID")
	}
	if purchase.UserID != "user-456" {
		t.Errorf("expected UserID user-456, got %s", purchase.UserID)
	}
	if !purchase.TotalAmount.Equal(total) {
		t.Errorf("expected total 1725.50, got %s", purchase.TotalAmount)
	}
	if purchase.PurchaseDate.IsZero() {
		t.Error("expected PurchaseDate to be set")
	}

	now := time.Now()
	if purchase.PurchaseDate.After(now) || purchase.PurchaseDate.Before(now.Add(-time.Second)) {
		t.Error("PurchaseDate is not within expected time range")
	}
}

func TestNewPurchaseItem_SubtotalIsExact(t *testing.T) {
	unitPrice := decimal.RequireFromString("25.50")
	item := NewPurchaseItem("purchase-1", "product-1", 2, unitPrice)

	if !item.Subtotal.Equal(decimal.RequireFromString("51.00")) {
		t.Errorf("expected subtotal 51.00, got %s", item.Subtotal)
	}
	if !item.UnitPrice.Equal(unitPrice) {
		t.Errorf("expected unit price 25.50, got %s", item.UnitPrice)
	}
	if item.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", item.Quantity)
	}
	if item.PurchaseID != "purchase-1" || item.ProductID != "product-1" {
		t.Errorf("unexpected ownership: %s / %s", item.PurchaseID, item.ProductID)
	}
}

func TestNewProduct(t *testing.T) {
	price := decimal.RequireFromString("850.00")
	product := NewProduct("LOTE-2024-001", "Laptop HP Pavilion 15", price, 15)

	if product.ID == "" {
		t.Error("expected non-empty product ID")
	}
	if product.SKU != "LOTE-2024-001" {
		t.Errorf("expected SKU LOTE-2024-001, got %s", product.SKU)
	}
	if !product.Price.Equal(price) {
		t.Errorf("expected price 850.00, got %s", product.Price)
	}
	if product.QuantityAvailable != 15 {
		t.Errorf("expected quantity 15, got %d", product.QuantityAvailable)
	}
	if product.EntryDate.IsZero() {
		t.Error("expected EntryDate to be set")
	}
}
