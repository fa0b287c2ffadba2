package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// CartItemResponse línea del carrito (ya normalizada) con su posición y desglose.
type CartItemResponse struct {
	Index              int              `json:"index"`
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

// CartResponse carrito con sus totales.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Totals    TotalsResponse     `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CheckoutRequest convierte el carrito en una orden del tipo indicado.
type CheckoutRequest struct {
	Kind         string           `json:"kind" validate:"required,oneof=purchase_order quote_request service_order"`
	SupplierID   string           `json:"supplier_id" validate:"required,uuid"`
	Currency     string           `json:"currency" validate:"omitempty,len=3"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate" validate:"omitempty,gt=0"`
	Notes        string           `json:"notes" validate:"max=2000"`
}
