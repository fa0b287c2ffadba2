package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseReportRequest período del reporte (fechas YYYY-MM-DD).
type PurchaseReportRequest struct {
	StartDate string `query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"required,datetime=2006-01-02"`
}

// SupplierPurchasesRow compras a un proveedor en una moneda.
type SupplierPurchasesRow struct {
	SupplierID   string         `json:"supplier_id"`
	SupplierName string         `json:"supplier_name"`
	Currency     string         `json:"currency"`
	OrderCount   int            `json:"order_count"`
	Totals       TotalsResponse `json:"totals"`
}

// MaterialPurchasesRow cantidades y base imponible por material.
type MaterialPurchasesRow struct {
	MaterialID    string          `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	Currency      string          `json:"currency"`
	Quantity      decimal.Decimal `json:"quantity"`
	BaseImponible decimal.Decimal `json:"base_imponible"`
}

// StatusCountRow órdenes de un tipo en un estado.
type StatusCountRow struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PurchaseReportResponse reporte de compras del período.
type PurchaseReportResponse struct {
	StartDate    time.Time              `json:"start_date"`
	EndDate      time.Time              `json:"end_date"`
	BySupplier   []SupplierPurchasesRow `json:"by_supplier"`
	ByMaterial   []MaterialPurchasesRow `json:"by_material"`
	StatusCounts []StatusCountRow       `json:"status_counts"`
	GeneratedAt  time.Time              `json:"generated_at"`
}
