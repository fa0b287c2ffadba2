package calculation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newUC() *calculation.UseCase {
	return calculation.NewUseCase(calculation.Currencies{Base: "VES", Reference: "USD"})
}

// ── Calculate ────────────────────────────────────────────────────────────────

func TestCalculate_DesgloseYTotales(t *testing.T) {
	out, err := newUC().Calculate(dto.CalculateTotalsRequest{
		Items: []dto.LineItemRequest{
			{Quantity: dec("2"), UnitPrice: dec("50"), DiscountPercentage: decPtr("10"), SalesPercentage: decPtr("5")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)

	b := out.Lines[0].Breakdown
	assert.True(t, b.ItemValue.Equal(dec("100")))
	assert.True(t, b.DiscountAmount.Equal(dec("10")))
	assert.True(t, b.SalesAmount.Equal(dec("4.5")))
	assert.True(t, b.Tax.Equal(dec("14.4")))
	assert.True(t, b.Total.Equal(dec("108.9")))

	assert.Equal(t, "VES", out.Totals.Currency)
	assert.Equal(t, "108.90", out.Totals.Display.Total)
	assert.Nil(t, out.Totals.Reference)
}

func TestCalculate_ListaVacia(t *testing.T) {
	out, err := newUC().Calculate(dto.CalculateTotalsRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Lines)
	assert.True(t, out.Totals.Exact.Total.IsZero())
	assert.Equal(t, "0.00", out.Totals.Display.Total)
}

func TestCalculate_TotalDeReferencia(t *testing.T) {
	out, err := newUC().Calculate(dto.CalculateTotalsRequest{
		Items:        []dto.LineItemRequest{{Quantity: dec("1"), UnitPrice: dec("100"), IsExempt: true}},
		ExchangeRate: decPtr("40"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Totals.Reference)
	assert.Equal(t, "USD", out.Totals.Reference.Currency)
	assert.Equal(t, "2.50", out.Totals.Reference.Total)
	assert.True(t, out.Totals.Exact.Total.Equal(dec("100")), "la referencia no altera los totales")
}

func TestCalculate_DescuentoMayorA100EsInvalido(t *testing.T) {
	_, err := newUC().Calculate(dto.CalculateTotalsRequest{
		Items: []dto.LineItemRequest{{Quantity: dec("1"), UnitPrice: dec("100"), DiscountPercentage: decPtr("150")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCalculate_CantidadCeroEsInvalida(t *testing.T) {
	_, err := newUC().Calculate(dto.CalculateTotalsRequest{
		Items: []dto.LineItemRequest{{Quantity: dec("0"), UnitPrice: dec("10")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCalculate_TasaCeroExplicita(t *testing.T) {
	out, err := newUC().Calculate(dto.CalculateTotalsRequest{
		Items: []dto.LineItemRequest{{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: decPtr("0")}},
	})
	require.NoError(t, err)
	assert.True(t, out.Totals.Exact.MontoIVA.IsZero())
}

// ── Combined ─────────────────────────────────────────────────────────────────

func TestCombined_SumaDeGrupos(t *testing.T) {
	out, err := newUC().Combined(dto.CombinedTotalsRequest{
		Groups: []dto.TotalsGroupRequest{
			{Name: "servicios", Items: []dto.LineItemRequest{{Quantity: dec("2"), UnitPrice: dec("40"), SalesPercentage: decPtr("10")}}},
			{Name: "repuestos", Items: []dto.LineItemRequest{{Quantity: dec("1"), UnitPrice: dec("100"), DiscountPercentage: decPtr("10"), IsExempt: true}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Groups, 2)

	sum := out.Groups[0].Totals.Exact.Add(out.Groups[1].Totals.Exact)
	assert.True(t, sum.Equal(out.Total.Exact))
	assert.True(t, out.Total.Exact.BaseImponible.Equal(dec("170")))
	assert.True(t, out.Total.Exact.Total.Equal(dec("190.8")))
}

func TestCombined_SinGrupos(t *testing.T) {
	_, err := newUC().Combined(dto.CombinedTotalsRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
