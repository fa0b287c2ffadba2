package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes.
type OrderFilter struct {
	Status string // vacío = todos
	Limit  int
	Offset int
}

// OrderRepository puerto de persistencia de un tipo de orden (cabecera + líneas).
// Cada implementación queda atada a un OrderKind y a sus tablas.
type OrderRepository interface {
	// NextNumber reserva el siguiente consecutivo del tipo para la empresa (OC-000001, ...).
	NextNumber(ctx context.Context, companyID string) (string, error)
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// Update actualiza proveedor, moneda, tasa, notas y updated_at (no el estado).
	Update(ctx context.Context, order *entity.Order) error
	DeleteItems(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	ListByCompany(ctx context.Context, companyID string, f OrderFilter) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepos resuelve el repositorio de cada tipo de orden sobre la misma conexión o transacción.
type OrderRepos func(kind entity.OrderKind) OrderRepository
