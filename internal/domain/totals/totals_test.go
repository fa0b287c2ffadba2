package totals_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

func item(qty, price, disc, sales string, exempt bool, rate string) totals.LineItem {
	return totals.Normalize(totals.RawLineItem{
		Quantity:           d(qty),
		UnitPrice:          d(price),
		DiscountPercentage: ptr(disc),
		SalesPercentage:    ptr(sales),
		IsExempt:           exempt,
		TaxRate:            ptr(rate),
	})
}

func randomItems(r *rand.Rand, n int) []totals.LineItem {
	items := make([]totals.LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, totals.LineItem{
			Quantity:           decimal.New(r.Int63n(10_000), -int32(r.Intn(3))),
			UnitPrice:          decimal.New(r.Int63n(1_000_000), -2),
			DiscountPercentage: decimal.New(r.Int63n(10_001), -2), // 0 – 100.00
			SalesPercentage:    decimal.New(r.Int63n(5_000), -2),
			IsExempt:           r.Intn(4) == 0,
			TaxRate:            decimal.New(r.Int63n(101), -2),
		})
	}
	return items
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del motor
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_ListaVaciaDevuelveCeros(t *testing.T) {
	for _, in := range [][]totals.LineItem{nil, {}} {
		got := totals.Compute(in)
		assertDec(t, "0", got.BaseImponible, "base imponible")
		assertDec(t, "0", got.MontoDescuento, "descuento")
		assertDec(t, "0", got.MontoVenta, "venta")
		assertDec(t, "0", got.MontoIVA, "iva")
		assertDec(t, "0", got.Total, "total")
	}
}

func TestCompute_OrdenDeOperaciones(t *testing.T) {
	it := item("10", "10", "10", "20", false, "0.16")

	b := it.Breakdown()
	assertDec(t, "100", b.ItemValue, "valor de la línea")
	assertDec(t, "10", b.DiscountAmount, "descuento")
	assertDec(t, "90", b.SubtotalAfterDiscount, "subtotal con descuento")
	assertDec(t, "18", b.SalesAmount, "venta sobre el subtotal con descuento")
	assertDec(t, "14.4", b.Tax, "IVA sobre el subtotal con descuento, no sobre la venta")
	assertDec(t, "122.4", b.Total, "total de la línea")

	got := totals.Compute([]totals.LineItem{it})
	assertDec(t, "90", got.BaseImponible, "base imponible")
	assertDec(t, "10", got.MontoDescuento, "descuento")
	assertDec(t, "18", got.MontoVenta, "venta")
	assertDec(t, "14.4", got.MontoIVA, "iva")
	assertDec(t, "122.4", got.Total, "total")
}

func TestCompute_DosLineasConExencionMixta(t *testing.T) {
	got := totals.Compute([]totals.LineItem{
		item("1", "50", "0", "0", true, "0.16"),
		item("2", "25", "0", "0", false, "0.16"),
	})
	assertDec(t, "100", got.BaseImponible, "base imponible")
	assertDec(t, "0", got.MontoDescuento, "descuento")
	assertDec(t, "0", got.MontoVenta, "venta")
	assertDec(t, "8", got.MontoIVA, "solo la línea no exenta paga IVA")
	assertDec(t, "108", got.Total, "total")
}

func TestCompute_ExentoIgnoraTasa(t *testing.T) {
	for _, rate := range []string{"0", "0.16", "0.5", "1"} {
		got := totals.Compute([]totals.LineItem{item("3", "33.33", "5", "12", true, rate)})
		assertDec(t, "0", got.MontoIVA, "línea exenta con tasa "+rate)
	}
}

func TestNormalize_TasaAusenteUsa16PorCiento(t *testing.T) {
	it := totals.Normalize(totals.RawLineItem{Quantity: d("4"), UnitPrice: d("25"), DiscountPercentage: ptr("50")})
	assertDec(t, "0.16", it.TaxRate, "tasa por defecto")
	assertDec(t, "0", it.SalesPercentage, "venta ausente")

	got := totals.Compute([]totals.LineItem{it})
	assertDec(t, "50", got.BaseImponible, "base imponible")
	assertDec(t, "8", got.MontoIVA, "16% del subtotal con descuento")
}

func TestNormalize_TasaCeroExplicitaSeRespeta(t *testing.T) {
	it := totals.Normalize(totals.RawLineItem{Quantity: d("1"), UnitPrice: d("100"), TaxRate: ptr("0")})
	assertDec(t, "0", it.TaxRate, "tasa explícita cero")

	got := totals.Compute([]totals.LineItem{it})
	assertDec(t, "0", got.MontoIVA, "sin IVA")
	assertDec(t, "100", got.Total, "total")
}

func TestCompute_CantidadOPrecioCeroNoAporta(t *testing.T) {
	got := totals.Compute([]totals.LineItem{
		item("0", "150", "10", "20", false, "0.16"),
		item("7", "0", "10", "20", false, "0.16"),
	})
	assert.True(t, got.Equal(totals.Zero()), "líneas en cero no deben aportar: %+v", got)
}

func TestCompute_IdentidadDelTotalAleatoria(t *testing.T) {
	r := rand.New(rand.NewSource(20240611))
	for i := 0; i < 500; i++ {
		got := totals.Compute(randomItems(r, r.Intn(12)))
		sum := got.BaseImponible.Add(got.MontoVenta).Add(got.MontoIVA)
		require.Truef(t, got.Total.Equal(sum), "iteración %d: total %s != %s", i, got.Total, sum)
	}
}

func TestCompute_ComposicionAditiva(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := randomItems(r, r.Intn(8))
		b := randomItems(r, r.Intn(8))
		joined := append(append([]totals.LineItem{}, a...), b...)

		separate := totals.Compute(a).Add(totals.Compute(b))
		require.Truef(t, separate.Equal(totals.Compute(joined)), "iteración %d", i)
	}
}

func TestCompute_ComponentesNoNegativos(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 300; i++ {
		got := totals.Compute(randomItems(r, 1+r.Intn(6)))
		for _, v := range []decimal.Decimal{got.BaseImponible, got.MontoDescuento, got.MontoVenta, got.MontoIVA, got.Total} {
			require.False(t, v.IsNegative(), "iteración %d: componente negativo %s", i, v)
		}
	}
}

func TestCompute_Determinista(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(1)), 10)
	first := totals.Compute(items)
	second := totals.Compute(items)
	assert.Equal(t, first.Total.String(), second.Total.String())
	assert.True(t, first.Equal(second))
}

func TestCompute_NoModificaLaEntrada(t *testing.T) {
	items := []totals.LineItem{item("2", "10.555", "3", "7", false, "0.16")}
	before := items[0]
	_ = totals.Compute(items)
	assert.True(t, before.Quantity.Equal(items[0].Quantity))
	assert.True(t, before.UnitPrice.Equal(items[0].UnitPrice))
	assert.True(t, before.TaxRate.Equal(items[0].TaxRate))
}

func TestCompute_SinRedondeoInterno(t *testing.T) {
	// 3 × 0.333 con 16% → 0.15984 de IVA; el motor no redondea.
	got := totals.Compute([]totals.LineItem{item("3", "0.333", "0", "0", false, "0.16")})
	assertDec(t, "0.999", got.BaseImponible, "base exacta")
	assertDec(t, "0.15984", got.MontoIVA, "iva exacto")

	rounded := got.Rounded(2)
	assertDec(t, "0.16", rounded.MontoIVA, "redondeo solo en presentación")
	assertDec(t, "0.15984", got.MontoIVA, "el original queda intacto")
}

// Descuentos mayores a 100% producen base negativa; el motor no recorta.
// Los formularios deben rechazarlos antes de llamar al motor.
func TestCompute_DescuentoMayorA100ProduceBaseNegativa(t *testing.T) {
	got := totals.Compute([]totals.LineItem{item("1", "100", "150", "0", false, "0.16")})
	assertDec(t, "-50", got.BaseImponible, "base negativa")
	assertDec(t, "150", got.MontoDescuento, "descuento")
	assertDec(t, "-8", got.MontoIVA, "iva negativo")
	assertDec(t, "-58", got.Total, "total negativo")
}

func TestSum_CategoriasDeOrdenDeServicio(t *testing.T) {
	servicios := totals.Compute([]totals.LineItem{item("2", "40", "0", "10", false, "0.16")})
	repuestos := totals.Compute([]totals.LineItem{item("1", "100", "10", "0", true, "0.16")})

	got := totals.Sum(servicios, repuestos)
	assertDec(t, "170", got.BaseImponible, "80 + 90")
	assertDec(t, "10", got.MontoDescuento, "descuento")
	assertDec(t, "8", got.MontoVenta, "venta")
	assertDec(t, "12.8", got.MontoIVA, "solo servicios pagan IVA")
	assertDec(t, "190.8", got.Total, "total")
}
