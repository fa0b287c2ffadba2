package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// PurchaseLineRow línea de una orden de compra aprobada o archivada, con datos de cabecera.
// Lo produce la DB; el caso de uso agrega con el motor de totales.
type PurchaseLineRow struct {
	OrderID      string
	SupplierID   string
	SupplierName string
	Currency     string
	MaterialID   string // vacío para líneas sin material
	MaterialName string
	Item         entity.OrderItem
}

// StatusCount cantidad de órdenes de un tipo en un estado.
type StatusCount struct {
	Kind   entity.OrderKind
	Status string
	Count  int
}

// ReportRepository consultas de solo lectura para reportes de compras.
type ReportRepository interface {
	// GetPurchaseLines devuelve las líneas de órdenes de compra APPROVED/ARCHIVED creadas en el período.
	GetPurchaseLines(ctx context.Context, companyID string, startDate, endDate time.Time) ([]PurchaseLineRow, error)
	// GetStatusCounts cuenta órdenes por tipo y estado creadas en el período.
	GetStatusCounts(ctx context.Context, companyID string, startDate, endDate time.Time) ([]StatusCount, error)
}
