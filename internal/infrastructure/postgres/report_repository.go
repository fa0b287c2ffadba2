package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes. Los totales no se calculan en SQL:
// se devuelven las líneas y el caso de uso aplica el motor de totales.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// GetPurchaseLines líneas de órdenes de compra aprobadas o archivadas creadas entre startDate y endDate (ambos incluidos).
func (r *ReportRepo) GetPurchaseLines(ctx context.Context, companyID string, startDate, endDate time.Time) ([]repository.PurchaseLineRow, error) {
	const query = `
		SELECT po.id, po.supplier_id, s.name, po.currency,
		       COALESCE(i.material_id::text, ''), COALESCE(m.name, ''),
		       i.id, i.category, i.description, i.quantity, i.unit_price,
		       i.discount_percentage, i.sales_percentage, i.is_exempt, i.tax_rate
		  FROM purchase_orders po
		  JOIN suppliers s              ON s.id = po.supplier_id
		  JOIN purchase_order_items i   ON i.order_id = po.id
		  LEFT JOIN materials m         ON m.id = i.material_id
		 WHERE po.company_id = $1
		   AND po.status IN ($2, $3)
		   AND po.created_at >= $4 AND po.created_at <= $5
		 ORDER BY po.created_at, po.id, i.line_no`
	rows, err := r.q.Query(ctx, query, companyID, entity.StatusApproved, entity.StatusArchived, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("purchase lines: %w", err)
	}
	defer rows.Close()

	var list []repository.PurchaseLineRow
	for rows.Next() {
		var row repository.PurchaseLineRow
		it := &row.Item
		if err := rows.Scan(
			&row.OrderID, &row.SupplierID, &row.SupplierName, &row.Currency, &row.MaterialID, &row.MaterialName,
			&it.ID, &it.Category, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercentage, &it.SalesPercentage, &it.IsExempt, &it.TaxRate,
		); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		it.OrderID = row.OrderID
		it.MaterialID = row.MaterialID
		list = append(list, row)
	}
	return list, rows.Err()
}

// GetStatusCounts cuenta órdenes por tipo y estado en los tres tipos de documento.
func (r *ReportRepo) GetStatusCounts(ctx context.Context, companyID string, startDate, endDate time.Time) ([]repository.StatusCount, error) {
	const query = `
		SELECT kind, status, COUNT(*) FROM (
			SELECT 'purchase_order' AS kind, status FROM purchase_orders
			 WHERE company_id = $1 AND created_at >= $2 AND created_at <= $3
			UNION ALL
			SELECT 'quote_request', status FROM quote_requests
			 WHERE company_id = $1 AND created_at >= $2 AND created_at <= $3
			UNION ALL
			SELECT 'service_order', status FROM service_orders
			 WHERE company_id = $1 AND created_at >= $2 AND created_at <= $3
		) t
		GROUP BY kind, status
		ORDER BY kind, status`
	rows, err := r.q.Query(ctx, query, companyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	var list []repository.StatusCount
	for rows.Next() {
		var (
			sc   repository.StatusCount
			kind string
		)
		if err := rows.Scan(&kind, &sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		sc.Kind = entity.OrderKind(kind)
		list = append(list, sc)
	}
	return list, rows.Err()
}
