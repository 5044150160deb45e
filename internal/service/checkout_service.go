package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/go-commerce/internal/entity"
	"github.com/matheusmosca/go-commerce/internal/repository"
)

// InventoryStore is the slice of the product store the checkout engine
// consumes: a locked read and a conditional decrement, both inside the
// engine's unit of work.
type InventoryStore interface {
	GetForUpdate(ctx context.Context, tx repository.Tx, id string) (*entity.Product, error)
	DecrementStock(ctx context.Context, tx repository.Tx, id string, quantity int) error
}

// OrderStore is the slice of the purchase store the checkout engine
// consumes.
type OrderStore interface {
	CreatePurchase(ctx context.Context, tx repository.Tx, purchase *entity.Purchase) error
	CreatePurchaseItems(ctx context.Context, tx repository.Tx, items []entity.PurchaseItem) error
}

// CheckoutService converts a cart into a persisted purchase with inventory
// deducted, as one unit of work: product reads take row locks, decrements
// are staged during validation and applied together with the purchase and
// line-item inserts, and any failure rolls the whole transaction back.
type CheckoutService struct {
	txm       repository.TxManager
	inventory InventoryStore
	orders    OrderStore
	cache     repository.ProductCache
	tracer    trace.Tracer
	checkouts metric.Int64Counter
}

// NewCheckoutService creates a new CheckoutService. cache may be nil.
func NewCheckoutService(
	txm repository.TxManager,
	inventory InventoryStore,
	orders OrderStore,
	cache repository.ProductCache,
	tracer trace.Tracer,
) *CheckoutService {
	s := &CheckoutService{
		txm:       txm,
		inventory: inventory,
		orders:    orders,
		cache:     cache,
		tracer:    tracer,
	}

	counter, err := otel.Meter("go-commerce/checkout").Int64Counter(
		"checkout.requests",
		metric.WithDescription("Checkout attempts by result"),
	)
	if err != nil {
		log.Printf("checkout counter init: %v", err)
	} else {
		s.checkouts = counter
	}
	return s
}

// Checkout validates and executes a purchase for userID. On success the
// returned purchase carries its line items and a total equal to the sum of
// their subtotals. On failure nothing is persisted.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req entity.CheckoutRequest) (*entity.Purchase, error) {
	ctx, span := s.tracer.Start(ctx, "checkout")
	defer span.End()

	purchase, err := s.checkout(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		s.count(ctx, "failure")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("purchase_id", purchase.ID),
		attribute.String("user_id", userID),
		attribute.Int("item_count", len(purchase.Items)),
		attribute.String("total_amount", purchase.TotalAmount.String()),
	)
	s.count(ctx, "success")
	return purchase, nil
}

func (s *CheckoutService) checkout(ctx context.Context, userID string, req entity.CheckoutRequest) (*entity.Purchase, error) {
	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	tx, err := s.txm.BeginTx(ctx)
	if err != nil {
		return nil, classifyStorageErr(err)
	}
	defer tx.Rollback(ctx)

	total := decimal.Zero
	lines := make([]entity.PurchaseItem, 0, len(items))
	availableByID := make(map[string]int, len(items))
	for _, item := range items {
		product, err := s.inventory.GetForUpdate(ctx, tx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if err != nil {
			return nil, classifyStorageErr(err)
		}

		if product.QuantityAvailable < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.QuantityAvailable,
			}
		}

		availableByID[product.ID] = product.QuantityAvailable
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		lines = append(lines, entity.PurchaseItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
	}

	// Apply the staged decrements. The rows are still locked, so the
	// conditional guard firing here means a bug upstream, not a race.
	for _, line := range lines {
		if err := s.inventory.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return nil, &InsufficientStockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Available: availableByID[line.ProductID],
				}
			}
			return nil, classifyStorageErr(err)
		}
	}

	purchase := entity.NewPurchase(userID, total)
	if err := s.orders.CreatePurchase(ctx, tx, purchase); err != nil {
		return nil, classifyStorageErr(err)
	}

	for i := range lines {
		lines[i].ID = uuid.New().String()
		lines[i].PurchaseID = purchase.ID
	}
	if err := s.orders.CreatePurchaseItems(ctx, tx, lines); err != nil {
		return nil, classifyStorageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyStorageErr(err)
	}

	purchase.Items = lines
	if s.cache != nil {
		ids := make([]string, len(lines))
		for i, line := range lines {
			ids[i] = line.ProductID
		}
		s.cache.Invalidate(ctx, ids...)
	}

	log.Printf("checkout completed: purchase=%s user=%s items=%d total=%s",
		purchase.ID, userID, len(lines), total.String())
	return purchase, nil
}

// normalizeItems validates the cart, merges duplicate product ids by
// summing quantities and sorts ascending by product id so that row locks
// are always acquired in the same order regardless of cart order.
func normalizeItems(items []entity.CheckoutItem) ([]entity.CheckoutItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}

	merged := make(map[string]int, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: missing product id", ErrInvalidRequest)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1 for product %s", ErrInvalidRequest, item.ProductID)
		}
		merged[item.ProductID] += item.Quantity
	}

	out := make([]entity.CheckoutItem, 0, len(merged))
	for id, quantity := range merged {
		out = append(out, entity.CheckoutItem{ProductID: id, Quantity: quantity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// classifyStorageErr separates retryable aborts (serialization failures,
// deadlocks, lock timeouts, expired contexts) from unexpected storage
// errors.
func classifyStorageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", ErrTransactionAborted, pgErr.Code)
		}
	}
	return fmt.Errorf("storage failure: %w", err)
}

func (s *CheckoutService) count(ctx context.Context, result string) {
	if s.checkouts == nil {
		return
	}
	s.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
