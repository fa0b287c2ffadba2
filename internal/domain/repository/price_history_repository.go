package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// PriceHistoryRepository puerto del historial de precios (solo inserción y lectura).
type PriceHistoryRepository interface {
	Create(ctx context.Context, record *entity.PriceHistory) error
	// ListByMaterial devuelve los registros más recientes primero.
	ListByMaterial(ctx context.Context, companyID, materialID string, limit int) ([]*entity.PriceHistory, error)
}
