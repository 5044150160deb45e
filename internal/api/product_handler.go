package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/service"
)

// CatalogUseCase defines what the product handlers need from the service
// layer.
type CatalogUseCase interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, sku, name string, price decimal.Decimal, quantityAvailable int) (*entity.Product, error)
	Update(ctx context.Context, id string, input service.UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler contains the catalog HTTP handlers.
type ProductHandler struct {
	useCase CatalogUseCase
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(useCase CatalogUseCase) *ProductHandler {
	return &ProductHandler{useCase: useCase}
}

// CreateProductRequest is the payload for POST /api/products.
type CreateProductRequest struct {
	SKU               string          `json:"sku" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
}

// UpdateProductRequest is the payload for PUT /api/products/:id. Absent
// fields are left unchanged.
type UpdateProductRequest struct {
	SKU               *string          `json:"sku"`
	Name              *string          `json:"name"`
	Price             *decimal.Decimal `json:"price"`
	QuantityAvailable *int             `json:"quantity_available"`
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.useCase.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Create(c.Request.Context(), req.SKU, req.Name, req.Price, req.QuantityAvailable)
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Update(c.Request.Context(), c.Param("id"), service.UpdateProductInput{
		SKU:               req.SKU,
		Name:              req.Name,
		Price:             req.Price,
		QuantityAvailable: req.QuantityAvailable,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

func respondProductError(c *gin.Context, err error) {
	var notFound *service.ProductNotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "product_id": notFound.ProductID})
	case errors.Is(err, service.ErrSKUTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondInternal(c, err)
	}
}

// respondInternal logs the cause and returns a generic message so storage
// details never leak to callers.
func respondInternal(c *gin.Context, err error) {
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
