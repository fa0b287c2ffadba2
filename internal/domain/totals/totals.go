package totals

import "github.com/shopspring/decimal"

// Totals resumen financiero de una orden. Se recalcula bajo demanda y nunca se persiste.
// Invariante: Total == BaseImponible + MontoVenta + MontoIVA.
type Totals struct {
	BaseImponible  decimal.Decimal `json:"base_imponible"`
	MontoDescuento decimal.Decimal `json:"monto_descuento"`
	MontoVenta     decimal.Decimal `json:"monto_venta"`
	MontoIVA       decimal.Decimal `json:"monto_iva"`
	Total          decimal.Decimal `json:"total"`
}

// Zero totales de una lista vacía.
func Zero() Totals {
	return Totals{
		BaseImponible:  decimal.Zero,
		MontoDescuento: decimal.Zero,
		MontoVenta:     decimal.Zero,
		MontoIVA:       decimal.Zero,
		Total:          decimal.Zero,
	}
}

// Compute agrega el desglose de cada línea. No modifica items.
func Compute(items []LineItem) Totals {
	t := Zero()
	for _, it := range items {
		b := it.Breakdown()
		t.BaseImponible = t.BaseImponible.Add(b.SubtotalAfterDiscount)
		t.MontoDescuento = t.MontoDescuento.Add(b.DiscountAmount)
		t.MontoVenta = t.MontoVenta.Add(b.SalesAmount)
		t.MontoIVA = t.MontoIVA.Add(b.Tax)
		t.Total = t.Total.Add(b.Total)
	}
	return t
}

// Add suma campo a campo (p. ej. servicios + repuestos de una orden de servicio).
func (t Totals) Add(o Totals) Totals {
	return Totals{
		BaseImponible:  t.BaseImponible.Add(o.BaseImponible),
		MontoDescuento: t.MontoDescuento.Add(o.MontoDescuento),
		MontoVenta:     t.MontoVenta.Add(o.MontoVenta),
		MontoIVA:       t.MontoIVA.Add(o.MontoIVA),
		Total:          t.Total.Add(o.Total),
	}
}

// Sum combina varios Totals.
func Sum(parts ...Totals) Totals {
	acc := Zero()
	for _, p := range parts {
		acc = acc.Add(p)
	}
	return acc
}

// Equal compara por valor numérico (ignora la escala interna de decimal).
func (t Totals) Equal(o Totals) bool {
	return t.BaseImponible.Equal(o.BaseImponible) &&
		t.MontoDescuento.Equal(o.MontoDescuento) &&
		t.MontoVenta.Equal(o.MontoVenta) &&
		t.MontoIVA.Equal(o.MontoIVA) &&
		t.Total.Equal(o.Total)
}

// Rounded devuelve una copia redondeada para presentación. El resultado no debe
// reutilizarse en cálculos posteriores.
func (t Totals) Rounded(places int32) Totals {
	return Totals{
		BaseImponible:  t.BaseImponible.Round(places),
		MontoDescuento: t.MontoDescuento.Round(places),
		MontoVenta:     t.MontoVenta.Round(places),
		MontoIVA:       t.MontoIVA.Round(places),
		Total:          t.Total.Round(places),
	}
}
