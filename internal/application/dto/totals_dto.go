package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
	"github.com/jhoicas/Compras-api/pkg/money"
)

// LineItemRequest línea tal como llega del formulario. Los opcionales en nil toman
// su valor por defecto al normalizar (descuento y venta 0, IVA 16%).
type LineItemRequest struct {
	Category           string           `json:"category" validate:"omitempty,oneof=material service"`
	MaterialID         string           `json:"material_id" validate:"omitempty,uuid"`
	Description        string           `json:"description" validate:"max=500"`
	Quantity           decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice          decimal.Decimal  `json:"unit_price" validate:"gte=0"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	SalesPercentage    *decimal.Decimal `json:"sales_percentage" validate:"omitempty,gte=0"`
	IsExempt           bool             `json:"is_exempt"`
	TaxRate            *decimal.Decimal `json:"tax_rate" validate:"omitempty,gte=0,lte=1"`
}

// Normalized aplica los valores por defecto una sola vez.
func (r LineItemRequest) Normalized() totals.LineItem {
	return totals.Normalize(totals.RawLineItem{
		Quantity:           r.Quantity,
		UnitPrice:          r.UnitPrice,
		DiscountPercentage: r.DiscountPercentage,
		SalesPercentage:    r.SalesPercentage,
		IsExempt:           r.IsExempt,
		TaxRate:            r.TaxRate,
	})
}

// CalculateTotalsRequest entrada de POST /api/totals/calculate.
type CalculateTotalsRequest struct {
	Items        []LineItemRequest `json:"items" validate:"dive"`
	Currency     string            `json:"currency" validate:"omitempty,len=3"`
	ExchangeRate *decimal.Decimal  `json:"exchange_rate" validate:"omitempty,gt=0"`
}

// TotalsGroupRequest grupo con nombre (p. ej. "servicios", "repuestos").
type TotalsGroupRequest struct {
	Name  string            `json:"name" validate:"required,max=100"`
	Items []LineItemRequest `json:"items" validate:"dive"`
}

// CombinedTotalsRequest entrada de POST /api/totals/combined.
type CombinedTotalsRequest struct {
	Groups       []TotalsGroupRequest `json:"groups" validate:"required,min=1,dive"`
	Currency     string               `json:"currency" validate:"omitempty,len=3"`
	ExchangeRate *decimal.Decimal     `json:"exchange_rate" validate:"omitempty,gt=0"`
}

// TotalsDisplay totales formateados a 2 decimales para mostrar.
type TotalsDisplay struct {
	BaseImponible  string `json:"base_imponible"`
	MontoDescuento string `json:"monto_descuento"`
	MontoVenta     string `json:"monto_venta"`
	MontoIVA       string `json:"monto_iva"`
	Total          string `json:"total"`
}

// ReferenceTotal total expresado en la moneda de referencia (solo presentación).
type ReferenceTotal struct {
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Total        string          `json:"total"`
}

// TotalsResponse totales exactos, su versión para mostrar y el total de referencia si hay tasa.
type TotalsResponse struct {
	Currency  string          `json:"currency"`
	Exact     totals.Totals   `json:"exact"`
	Display   TotalsDisplay   `json:"display"`
	Reference *ReferenceTotal `json:"reference,omitempty"`
}

// LineBreakdownResponse desglose de una línea en la posición Index.
type LineBreakdownResponse struct {
	Index     int              `json:"index"`
	Breakdown totals.Breakdown `json:"breakdown"`
}

// CalculateTotalsResponse salida de POST /api/totals/calculate.
type CalculateTotalsResponse struct {
	Lines  []LineBreakdownResponse `json:"lines"`
	Totals TotalsResponse          `json:"totals"`
}

// GroupTotalsResponse totales de un grupo.
type GroupTotalsResponse struct {
	Name   string         `json:"name"`
	Totals TotalsResponse `json:"totals"`
}

// CombinedTotalsResponse totales por grupo y su suma campo a campo.
type CombinedTotalsResponse struct {
	Groups []GroupTotalsResponse `json:"groups"`
	Total  TotalsResponse        `json:"total"`
}

// NewTotalsResponse arma la respuesta a partir de los totales exactos del motor.
// La referencia solo se incluye con tasa positiva y se calcula sobre el total exacto.
func NewTotalsResponse(t totals.Totals, currency string, rate decimal.Decimal, refCurrency string) TotalsResponse {
	out := TotalsResponse{
		Currency: currency,
		Exact:    t,
		Display: TotalsDisplay{
			BaseImponible:  money.Format(t.BaseImponible),
			MontoDescuento: money.Format(t.MontoDescuento),
			MontoVenta:     money.Format(t.MontoVenta),
			MontoIVA:       money.Format(t.MontoIVA),
			Total:          money.Format(t.Total),
		},
	}
	if ref, ok := money.Reference(t.Total, rate); ok && refCurrency != "" && refCurrency != currency {
		out.Reference = &ReferenceTotal{
			Currency:     refCurrency,
			ExchangeRate: rate,
			Total:        money.Format(ref),
		}
	}
	return out
}
