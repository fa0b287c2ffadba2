package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// CreateOrderRequest entrada para crear (o reemplazar, en Update) una orden de cualquier tipo.
type CreateOrderRequest struct {
	SupplierID   string            `json:"supplier_id" validate:"required,uuid"`
	Currency     string            `json:"currency" validate:"omitempty,len=3"`
	ExchangeRate *decimal.Decimal  `json:"exchange_rate" validate:"omitempty,gt=0"`
	Notes        string            `json:"notes" validate:"max=2000"`
	Items        []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest reemplaza cabecera y líneas de una orden editable.
type UpdateOrderRequest = CreateOrderRequest

// UpdateStatusRequest cambio de estado.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT SENT APPROVED REJECTED ARCHIVED"`
}

// ConvertQuoteRequest convierte una solicitud de cotización aprobada.
type ConvertQuoteRequest struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=purchase_order service_order"`
}

// OrderFilterRequest filtros del listado.
type OrderFilterRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=DRAFT SENT APPROVED REJECTED ARCHIVED"`
	PageRequest
}

// OrderItemResponse línea con su desglose calculado.
type OrderItemResponse struct {
	ID                 string           `json:"id"`
	Category           string           `json:"category"`
	MaterialID         string           `json:"material_id,omitempty"`
	Description        string           `json:"description"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	SalesPercentage    decimal.Decimal  `json:"sales_percentage"`
	IsExempt           bool             `json:"is_exempt"`
	TaxRate            decimal.Decimal  `json:"tax_rate"`
	Breakdown          totals.Breakdown `json:"breakdown"`
}

// OrderResponse orden con líneas y totales calculados por el motor.
// CategoryTotals solo se llena en órdenes de servicio (service / material).
type OrderResponse struct {
	ID             string                    `json:"id"`
	CompanyID      string                    `json:"company_id"`
	Kind           string                    `json:"kind"`
	Number         string                    `json:"number"`
	SupplierID     string                    `json:"supplier_id"`
	Currency       string                    `json:"currency"`
	ExchangeRate   *decimal.Decimal          `json:"exchange_rate,omitempty"`
	Status         string                    `json:"status"`
	Notes          string                    `json:"notes"`
	CreatedBy      string                    `json:"created_by"`
	SourceQuoteID  string                    `json:"source_quote_id,omitempty"`
	Items          []OrderItemResponse       `json:"items"`
	Totals         TotalsResponse            `json:"totals"`
	CategoryTotals map[string]TotalsResponse `json:"category_totals,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// OrderSummaryResponse fila del listado (sin líneas).
type OrderSummaryResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Number     string    `json:"number"`
	SupplierID string    `json:"supplier_id"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderSummaryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
