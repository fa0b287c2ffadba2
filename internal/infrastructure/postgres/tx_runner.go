package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/application/orders"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ orders.TxRunner = (*TxRunner)(nil)

// TxBeginner lo implementan *pgxpool.Pool y el pool de pgxmock.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunOrders inicia una transacción, ejecuta fn con los repositorios de órdenes e historial
// atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(orders repository.OrderRepos, history repository.PriceHistoryRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(OrderReposFor(tx), NewPriceHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
