package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo historial de precios pagados por material. Solo inserta y lee.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador (pool o tx).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create registra un precio pagado.
func (r *PriceHistoryRepo) Create(ctx context.Context, h *entity.PriceHistory) error {
	const query = `
		INSERT INTO material_price_history (id, company_id, material_id, supplier_id, unit_price,
			currency, exchange_rate, order_id, order_kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.CompanyID, h.MaterialID, h.SupplierID, h.UnitPrice,
		h.Currency, nullIfZero(h.ExchangeRate), h.OrderID, string(h.OrderKind), h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByMaterial devuelve los últimos limit precios del material.
func (r *PriceHistoryRepo) ListByMaterial(ctx context.Context, companyID, materialID string, limit int) ([]*entity.PriceHistory, error) {
	const query = `
		SELECT id, company_id, material_id, supplier_id, unit_price, currency, exchange_rate,
		       order_id, order_kind, created_at
		  FROM material_price_history
		 WHERE company_id = $1 AND material_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`
	rows, err := r.q.Query(ctx, query, companyID, materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()

	var list []*entity.PriceHistory
	for rows.Next() {
		var (
			h    entity.PriceHistory
			rate decimal.NullDecimal
			kind string
		)
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.MaterialID, &h.SupplierID, &h.UnitPrice, &h.Currency, &rate,
			&h.OrderID, &kind, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		h.ExchangeRate = zeroIfNull(rate)
		h.OrderKind = entity.OrderKind(kind)
		list = append(list, &h)
	}
	return list, rows.Err()
}
