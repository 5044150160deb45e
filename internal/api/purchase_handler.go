package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/service"
)

// CheckoutUseCase defines what the purchase handlers need from the
// checkout engine.
type CheckoutUseCase interface {
	Checkout(ctx context.Context, userID string, req entity.CheckoutRequest) (*entity.Purchase, error)
}

// PurchaseQueries defines the read side consumed by the purchase handlers.
type PurchaseQueries interface {
	History(ctx context.Context, userID string) ([]entity.Purchase, error)
	GetForUser(ctx context.Context, id, userID string) (*entity.Purchase, error)
	ListAll(ctx context.Context) ([]entity.Purchase, error)
}

// PurchaseHandler contains the purchase HTTP handlers.
type PurchaseHandler struct {
	checkout CheckoutUseCase
	queries  PurchaseQueries
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(checkout CheckoutUseCase, queries PurchaseQueries) *PurchaseHandler {
	return &PurchaseHandler{checkout: checkout, queries: queries}
}

// Create handles POST /api/purchases: the checkout entry point.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req entity.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := h.checkout.Checkout(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "purchase completed successfully",
		"purchase": purchase,
	})
}

// History handles GET /api/purchases/history.
func (h *PurchaseHandler) History(c *gin.Context) {
	purchases, err := h.queries.History(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// Get handles GET /api/purchases/:id, scoped to the caller.
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchase, err := h.queries.GetForUser(c.Request.Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// ListAll handles GET /api/products/admin/purchases.
func (h *PurchaseHandler) ListAll(c *gin.Context) {
	purchases, err := h.queries.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func respondCheckoutError(c *gin.Context, err error) {
	var notFound *service.ProductNotFoundError
	var noStock *service.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      err.Error(),
			"product_id": notFound.ProductID,
		})
	case errors.As(err, &noStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": noStock.ProductID,
			"requested":  noStock.Requested,
			"available":  noStock.Available,
		})
	case errors.Is(err, service.ErrTransactionAborted):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "purchase could not be completed, please retry",
			"retryable": true,
		})
	default:
		respondInternal(c, err)
	}
}
