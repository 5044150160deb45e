package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStockConflict is returned when a conditional stock decrement would
	// drive the quantity below zero.
	ErrStockConflict = errors.New("stock conflict")
)

// Tx is a unit of work shared by the stores: every read and write performed
// through it becomes visible atomically on Commit or not at all.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager starts units of work.
type TxManager interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// PostgresTx implements Tx over a pgx transaction.
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PostgresTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PostgresTxManager implements TxManager using a pgx connection pool.
type PostgresTxManager struct {
	db *pgxpool.Pool
}

// NewTxManager creates a new PostgresTxManager.
func NewTxManager(db *pgxpool.Pool) TxManager {
	return &PostgresTxManager{db: db}
}

// BeginTx starts a new transaction.
func (m *PostgresTxManager) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &PostgresTx{tx: tx}, nil
}

func pgxTx(tx Tx) pgx.Tx {
	return tx.(*PostgresTx).tx
}
