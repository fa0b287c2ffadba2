// Package totals calcula el desglose financiero de una orden (base imponible,
// descuento, venta, IVA y total) a partir de sus líneas.
//
// Es la única fuente de cálculo de totales: órdenes de compra, solicitudes de
// cotización, órdenes de servicio, carrito, reportes y documentos la usan por igual.
// El cálculo es puro: no guarda estado, no redondea y no falla.
package totals

import "github.com/shopspring/decimal"

// DefaultTaxRate tasa de IVA aplicada cuando la línea no trae tasa (16%).
var DefaultTaxRate = decimal.New(16, -2)

// LineItem línea normalizada lista para el cálculo. Los porcentajes van en escala 0-100
// y TaxRate en escala 0-1. Construir con Normalize para aplicar los valores por defecto.
type LineItem struct {
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	SalesPercentage    decimal.Decimal `json:"sales_percentage"`
	IsExempt           bool            `json:"is_exempt"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
}

// RawLineItem línea tal como llega de un formulario: los campos opcionales son punteros
// para distinguir "ausente" de "cero explícito".
type RawLineItem struct {
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	DiscountPercentage *decimal.Decimal
	SalesPercentage    *decimal.Decimal
	IsExempt           bool
	TaxRate            *decimal.Decimal
}

// Normalize aplica los valores por defecto una sola vez:
// descuento y venta ausentes → 0, tasa ausente → DefaultTaxRate.
// Una tasa explícita de 0 se respeta.
func Normalize(raw RawLineItem) LineItem {
	item := LineItem{
		Quantity:  raw.Quantity,
		UnitPrice: raw.UnitPrice,
		IsExempt:  raw.IsExempt,
		TaxRate:   DefaultTaxRate,
	}
	if raw.DiscountPercentage != nil {
		item.DiscountPercentage = *raw.DiscountPercentage
	}
	if raw.SalesPercentage != nil {
		item.SalesPercentage = *raw.SalesPercentage
	}
	if raw.TaxRate != nil {
		item.TaxRate = *raw.TaxRate
	}
	return item
}

// Breakdown desglose de una sola línea.
type Breakdown struct {
	ItemValue             decimal.Decimal `json:"item_value"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	SubtotalAfterDiscount decimal.Decimal `json:"subtotal_after_discount"`
	SalesAmount           decimal.Decimal `json:"sales_amount"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
}

// Breakdown calcula el desglose de la línea.
//
// El descuento se aplica sobre cantidad × precio. Venta e IVA se calculan ambos sobre
// el subtotal con descuento y se suman; nunca se compone uno sobre el otro.
// Las líneas exentas tienen IVA 0 sin importar TaxRate.
func (it LineItem) Breakdown() Breakdown {
	itemValue := it.Quantity.Mul(it.UnitPrice)
	discountAmount := itemValue.Mul(percentToRate(it.DiscountPercentage))
	subtotal := itemValue.Sub(discountAmount)
	salesAmount := subtotal.Mul(percentToRate(it.SalesPercentage))

	tax := decimal.Zero
	if !it.IsExempt {
		tax = subtotal.Mul(it.TaxRate)
	}

	return Breakdown{
		ItemValue:             itemValue,
		DiscountAmount:        discountAmount,
		SubtotalAfterDiscount: subtotal,
		SalesAmount:           salesAmount,
		Tax:                   tax,
		Total:                 subtotal.Add(salesAmount).Add(tax),
	}
}

// percentToRate divide entre 100 desplazando el exponente (exacto, sin precisión de división).
func percentToRate(p decimal.Decimal) decimal.Decimal {
	return p.Shift(-2)
}
