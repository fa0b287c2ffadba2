package orders

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Cabecera, líneas e historial de precios se guardan juntos o no se guardan.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(orders repository.OrderRepos, history repository.PriceHistoryRepository) error) error
}

// Metrics contadores de negocio (implementación Prometheus en infraestructura).
type Metrics interface {
	OrderCreated(kind string)
	StatusChanged(kind, status string)
}

type noopMetrics struct{}

func (noopMetrics) OrderCreated(string)          {}
func (noopMetrics) StatusChanged(string, string) {}
