package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/repository"
)

// MockProductRepository mocks repository.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) SKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, tx repository.Tx, id string) (*entity.Product, error) {
	args := m.Called(ctx, tx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx repository.Tx, id string, quantity int) error {
	args := m.Called(ctx, tx, id, quantity)
	return args.Error(0)
}

func TestProductCreate_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	ctx := context.Background()

	mockRepo.On("SKUExists", ctx, "LOTE-2024-099", "").Return(false, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	svc := NewProductService(mockRepo, nil)
	product, err := svc.Create(ctx, "LOTE-2024-099", "Webcam HD", decimal.RequireFromString("45.00"), 12)

	require.NoError(t, err)
	assert.Equal(t, "LOTE-2024-099", product.SKU)
	assert.Equal(t, 12, product.QuantityAvailable)
	mockRepo.AssertExpectations(t)
}

func TestProductCreate_SKUTaken(t *testing.T) {
	mockRepo := new(MockProductRepository)
	ctx := context.Background()

	mockRepo.On("SKUExists", ctx, "LOTE-2024-001", "").Return(true, nil)

	svc := NewProductService(mockRepo, nil)
	_, err := svc.Create(ctx, "LOTE-2024-001", "Laptop", decimal.RequireFromString("850.00"), 15)

	assert.ErrorIs(t, err, ErrSKUTaken)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProductCreate_NegativePrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, nil)

	_, err := svc.Create(context.Background(), "LOTE-2024-099", "Webcam", decimal.RequireFromString("-1.00"), 1)

	assert.ErrorIs(t, err, ErrInvalidRequest)
	mockRepo.AssertNotCalled(t, "SKUExists")
}

func TestProductGet_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := NewProductService(mockRepo, nil)
	_, err := svc.Get(ctx, "missing")

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	ctx := context.Background()

	existing := entity.NewProduct("LOTE-2024-001", "Laptop HP Pavilion 15", decimal.RequireFromString("850.00"), 15)
	mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	newPrice := decimal.RequireFromString("799.00")
	svc := NewProductService(mockRepo, nil)
	product, err := svc.Update(ctx, existing.ID, UpdateProductInput{Price: &newPrice})

	require.NoError(t, err)
	assert.True(t, product.Price.Equal(newPrice))
	assert.Equal(t, "LOTE-2024-001", product.SKU, "unset fields keep their value")
	assert.Equal(t, 15, product.QuantityAvailable)
	mockRepo.AssertExpectations(t)
}

func TestProductUpdate_SKUConflict(t *testing.T) {
	mockRepo := new(MockProductRepository)
	ctx := context.Background()

	existing := entity.NewProduct("LOTE-2024-001", "Laptop", decimal.RequireFromString("850.00"), 15)
	mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	mockRepo.On("SKUExists", ctx, "LOTE-2024-002", existing.ID).Return(true, nil)

	taken := "LOTE-2024-002"
	svc := NewProductService(mockRepo, nil)
	_, err := svc.Update(ctx, existing.ID, UpdateProductInput{SKU: &taken})

	assert.ErrorIs(t, err, ErrSKUTaken)
	mockRepo.AssertNotCalled(t, "Update")
}
