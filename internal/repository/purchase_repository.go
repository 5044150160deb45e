package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/go-commerce/internal/entity"
)

// PurchaseRepository defines the order store. The Create* methods run
// inside the checkout engine's Tx; the read methods serve purchase
// queries and always return totals as persisted, never recomputed.
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, tx Tx, purchase *entity.Purchase) error
	CreatePurchaseItems(ctx context.Context, tx Tx, items []entity.PurchaseItem) error

	ListByUser(ctx context.Context, userID string) ([]entity.Purchase, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*entity.Purchase, error)
	ListAll(ctx context.Context) ([]entity.Purchase, error)
}

// PostgresPurchaseRepository implements PurchaseRepository using PostgreSQL.
type PostgresPurchaseRepository struct {
	db *pgxpool.Pool
}

// NewPurchaseRepository creates a new PostgresPurchaseRepository.
func NewPurchaseRepository(db *pgxpool.Pool) PurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

func (r *PostgresPurchaseRepository) CreatePurchase(ctx context.Context, tx Tx, purchase *entity.Purchase) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO purchases (id, user_id, total_amount, purchase_date)
		VALUES ($1, $2, $3, $4)
	`, purchase.ID, purchase.UserID, purchase.TotalAmount, purchase.PurchaseDate)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PostgresPurchaseRepository) CreatePurchaseItems(ctx context.Context, tx Tx, items []entity.PurchaseItem) error {
	for _, item := range items {
		_, err := pgxTx(tx).Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PostgresPurchaseRepository) ListByUser(ctx context.Context, userID string) ([]entity.Purchase, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *PostgresPurchaseRepository) ListAll(ctx context.Context) ([]entity.Purchase, error) {
	return r.list(ctx, ``)
}

func (r *PostgresPurchaseRepository) list(ctx context.Context, where string, args ...any) ([]entity.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, total_amount, purchase_date
		FROM purchases `+where+` ORDER BY purchase_date DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []entity.Purchase
	var ids []string
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.TotalAmount, &p.PurchaseDate); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemsByPurchase, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		purchases[i].Items = itemsByPurchase[purchases[i].ID]
	}
	return purchases, nil
}

func (r *PostgresPurchaseRepository) GetByIDForUser(ctx context.Context, id, userID string) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, total_amount, purchase_date
		FROM purchases WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&p.ID, &p.UserID, &p.TotalAmount, &p.PurchaseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query purchase: %w", err)
	}

	itemsByPurchase, err := r.loadItems(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Items = itemsByPurchase[p.ID]
	return &p, nil
}

func (r *PostgresPurchaseRepository) loadItems(ctx context.Context, purchaseIDs []string) (map[string][]entity.PurchaseItem, error) {
	out := make(map[string][]entity.PurchaseItem, len(purchaseIDs))
	if len(purchaseIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_items
		WHERE purchase_id = ANY($1)
	`, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.PurchaseItem
		if err := rows.Scan(&item.ID, &item.PurchaseID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		out[item.PurchaseID] = append(out[item.PurchaseID], item)
	}
	return out, rows.Err()
}
