package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/repository"
)

// ProductService handles catalog management. It does not touch stock on
// the checkout path; that belongs to CheckoutService.
type ProductService struct {
	products repository.ProductRepository
	cache    repository.ProductCache
}

// NewProductService creates a new ProductService. cache may be nil.
func NewProductService(products repository.ProductRepository, cache repository.ProductCache) *ProductService {
	return &ProductService{products: products, cache: cache}
}

// UpdateProductInput carries a partial update: nil fields keep their
// current value.
type UpdateProductInput struct {
	SKU               *string
	Name              *string
	Price             *decimal.Decimal
	QuantityAvailable *int
}

func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetList(ctx); ok {
			return products, nil
		}
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetList(ctx, products)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err, id)
	}
	if s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, sku, name string, price decimal.Decimal, quantityAvailable int) (*entity.Product, error) {
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku and name are required", ErrInvalidRequest)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidRequest)
	}
	if quantityAvailable < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRequest)
	}

	taken, err := s.products.SKUExists(ctx, sku, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSKUTaken
	}

	product := entity.NewProduct(sku, name, price, quantityAvailable)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err, id)
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		taken, err := s.products.SKUExists(ctx, *input.SKU, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSKUTaken
		}
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidRequest)
		}
		product.Price = *input.Price
	}
	if input.QuantityAvailable != nil {
		if *input.QuantityAvailable < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRequest)
		}
		product.QuantityAvailable = *input.QuantityAvailable
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, mapProductErr(err, id)
	}

	s.invalidate(ctx, id)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return mapProductErr(err, id)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, ids ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}

func mapProductErr(err error, id string) error {
	if err == repository.ErrNotFound {
		return &ProductNotFoundError{ProductID: id}
	}
	return err
}
