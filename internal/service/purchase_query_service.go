package service

import (
	"context"
	"errors"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/repository"
)

// PurchaseQueryService serves read-only lookups of past purchases.
type PurchaseQueryService struct {
	purchases repository.PurchaseRepository
}

// NewPurchaseQueryService creates a new PurchaseQueryService.
func NewPurchaseQueryService(purchases repository.PurchaseRepository) *PurchaseQueryService {
	return &PurchaseQueryService{purchases: purchases}
}

// History returns the user's purchases, newest first.
func (s *PurchaseQueryService) History(ctx context.Context, userID string) ([]entity.Purchase, error) {
	return s.purchases.ListByUser(ctx, userID)
}

// GetForUser returns one purchase owned by the user.
func (s *PurchaseQueryService) GetForUser(ctx context.Context, id, userID string) (*entity.Purchase, error) {
	purchase, err := s.purchases.GetByIDForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// ListAll returns every purchase in the system. Admin only; the handler
// enforces the role.
func (s *PurchaseQueryService) ListAll(ctx context.Context) ([]entity.Purchase, error) {
	return s.purchases.ListAll(ctx)
}
