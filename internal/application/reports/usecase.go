// Package reports reportes de compras por período. Los montos se calculan con el
// motor de totales a partir de las líneas; la base de datos no agrega dinero.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

const dateLayout = "2006-01-02"

// Exporter genera el archivo del reporte (xlsx).
type Exporter interface {
	PurchaseReport(r *dto.PurchaseReportResponse) ([]byte, error)
}

// UseCase reporte de compras de la empresa.
type UseCase struct {
	repo        repository.ReportRepository
	exporter    Exporter
	refCurrency string
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReportRepository, exporter Exporter, refCurrency string) *UseCase {
	return &UseCase{repo: repo, exporter: exporter, refCurrency: refCurrency, now: time.Now}
}

// Purchases arma el reporte del período [start_date, end_date] (ambos inclusive).
//
// Dos consultas en paralelo:
//  1. GetPurchaseLines  → por proveedor y por material
//  2. GetStatusCounts   → órdenes por tipo y estado
func (uc *UseCase) Purchases(ctx context.Context, companyID string, in dto.PurchaseReportRequest) (*dto.PurchaseReportResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	start, _ := time.Parse(dateLayout, in.StartDate)
	endDay, _ := time.Parse(dateLayout, in.EndDate)
	if endDay.Before(start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	end := endDay.Add(24*time.Hour - time.Nanosecond)

	type linesResult struct {
		rows []repository.PurchaseLineRow
		err  error
	}
	type countsResult struct {
		rows []repository.StatusCount
		err  error
	}
	linesCh := make(chan linesResult, 1)
	countsCh := make(chan countsResult, 1)

	go func() {
		rows, err := uc.repo.GetPurchaseLines(ctx, companyID, start, end)
		linesCh <- linesResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.GetStatusCounts(ctx, companyID, start, end)
		countsCh <- countsResult{rows, err}
	}()

	lines := <-linesCh
	counts := <-countsCh
	if lines.err != nil {
		return nil, fmt.Errorf("reporte: líneas de compra: %w", lines.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("reporte: estados: %w", counts.err)
	}

	statusRows := make([]dto.StatusCountRow, 0, len(counts.rows))
	for _, c := range counts.rows {
		statusRows = append(statusRows, dto.StatusCountRow{Kind: string(c.Kind), Status: c.Status, Count: c.Count})
	}

	return &dto.PurchaseReportResponse{
		StartDate:    start,
		EndDate:      endDay,
		BySupplier:   uc.bySupplier(lines.rows),
		ByMaterial:   byMaterial(lines.rows),
		StatusCounts: statusRows,
		GeneratedAt:  uc.now(),
	}, nil
}

// ExportPurchases devuelve el reporte como xlsx y un nombre de archivo sugerido.
func (uc *UseCase) ExportPurchases(ctx context.Context, companyID string, in dto.PurchaseReportRequest) ([]byte, string, error) {
	report, err := uc.Purchases(ctx, companyID, in)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.PurchaseReport(report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar reporte: %w", err)
	}
	return data, fmt.Sprintf("compras_%s_%s.xlsx", in.StartDate, in.EndDate), nil
}

type supplierKey struct{ supplierID, currency string }

func (uc *UseCase) bySupplier(rows []repository.PurchaseLineRow) []dto.SupplierPurchasesRow {
	type acc struct {
		name   string
		orders map[string]struct{}
		items  []totals.LineItem
	}
	groups := make(map[supplierKey]*acc)
	for _, r := range rows {
		k := supplierKey{r.SupplierID, r.Currency}
		g, ok := groups[k]
		if !ok {
			g = &acc{name: r.SupplierName, orders: map[string]struct{}{}}
			groups[k] = g
		}
		g.orders[r.OrderID] = struct{}{}
		g.items = append(g.items, r.Item.LineItem())
	}

	out := make([]dto.SupplierPurchasesRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, dto.SupplierPurchasesRow{
			SupplierID:   k.supplierID,
			SupplierName: g.name,
			Currency:     k.currency,
			OrderCount:   len(g.orders),
			Totals:       dto.NewTotalsResponse(totals.Compute(g.items), k.currency, decimal.Zero, uc.refCurrency),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SupplierName != out[j].SupplierName {
			return out[i].SupplierName < out[j].SupplierName
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

func byMaterial(rows []repository.PurchaseLineRow) []dto.MaterialPurchasesRow {
	type key struct{ materialID, currency string }
	groups := make(map[key]*dto.MaterialPurchasesRow)
	for _, r := range rows {
		if r.MaterialID == "" {
			continue
		}
		k := key{r.MaterialID, r.Currency}
		g, ok := groups[k]
		if !ok {
			g = &dto.MaterialPurchasesRow{
				MaterialID:    r.MaterialID,
				MaterialName:  r.MaterialName,
				Currency:      r.Currency,
				Quantity:      decimal.Zero,
				BaseImponible: decimal.Zero,
			}
			groups[k] = g
		}
		g.Quantity = g.Quantity.Add(r.Item.Quantity)
		g.BaseImponible = g.BaseImponible.Add(r.Item.LineItem().Breakdown().SubtotalAfterDiscount)
	}

	out := make([]dto.MaterialPurchasesRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaterialName != out[j].MaterialName {
			return out[i].MaterialName < out[j].MaterialName
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
