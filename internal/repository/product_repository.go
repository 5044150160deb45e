package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/go-commerce/internal/entity"
)

// ProductRepository defines the catalog store plus the inventory
// capabilities consumed by the checkout engine. GetForUpdate and
// DecrementStock participate in a caller-supplied Tx; everything else runs
// against the pool directly.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	SKUExists(ctx context.Context, sku, excludeID string) (bool, error)

	// GetForUpdate reads the product with a row-level exclusive lock
	// (SELECT ... FOR UPDATE) held until the Tx commits or rolls back.
	GetForUpdate(ctx context.Context, tx Tx, id string) (*entity.Product, error)

	// DecrementStock subtracts quantity conditionally: the update only
	// applies while quantity_available stays >= 0, independent of any
	// earlier read. Returns ErrStockConflict otherwise.
	DecrementStock(ctx context.Context, tx Tx, id string, quantity int) error
}

// PostgresProductRepository implements ProductRepository using PostgreSQL.
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository creates a new PostgresProductRepository.
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, sku, name, price, quantity_available, entry_date, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.QuantityAvailable, &p.EntryDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *entity.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, sku, name, price, quantity_available, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, product.ID, product.SKU, product.Name, product.Price, product.QuantityAvailable,
		product.EntryDate, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *entity.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET sku = $1, name = $2, price = $3, quantity_available = $4, updated_at = NOW()
		WHERE id = $5
	`, product.SKU, product.Name, product.Price, product.QuantityAvailable, product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *PostgresProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY entry_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) SKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1 AND id != $2)
	`, sku, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sku: %w", err)
	}
	return exists, nil
}

// GetForUpdate locks the product row for the duration of the transaction.
func (r *PostgresProductRepository) GetForUpdate(ctx context.Context, tx Tx, id string) (*entity.Product, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanProduct(row)
}

// DecrementStock applies the conditional decrement. The WHERE guard keeps
// the quantity from going negative even if a caller skipped the locked
// read.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, tx Tx, id string, quantity int) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE products
		SET quantity_available = quantity_available - $1, updated_at = NOW()
		WHERE id = $2 AND quantity_available >= $1
	`, quantity, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStockConflict
	}
	return nil
}
