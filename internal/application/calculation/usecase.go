// Package calculation expone el motor de totales a la calculadora de la app:
// desglose por línea, totales exactos, cifras para mostrar y total de referencia.
package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// Currencies monedas base y de referencia de la empresa.
type Currencies struct {
	Base      string
	Reference string
}

// UseCase calcula totales sin persistir nada.
type UseCase struct {
	currencies Currencies
}

// NewUseCase construye el caso de uso.
func NewUseCase(currencies Currencies) *UseCase {
	return &UseCase{currencies: currencies}
}

// Calculate normaliza las líneas, calcula el desglose de cada una y los totales agregados.
func (uc *UseCase) Calculate(in dto.CalculateTotalsRequest) (*dto.CalculateTotalsResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	items, err := normalizeAll(in.Items)
	if err != nil {
		return nil, err
	}
	lines := make([]dto.LineBreakdownResponse, 0, len(items))
	for i, it := range items {
		lines = append(lines, dto.LineBreakdownResponse{Index: i, Breakdown: it.Breakdown()})
	}
	currency, rate := uc.resolve(in.Currency, in.ExchangeRate)
	return &dto.CalculateTotalsResponse{
		Lines:  lines,
		Totals: dto.NewTotalsResponse(totals.Compute(items), currency, rate, uc.currencies.Reference),
	}, nil
}

// Combined calcula cada grupo por separado y su suma campo a campo.
func (uc *UseCase) Combined(in dto.CombinedTotalsRequest) (*dto.CombinedTotalsResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	currency, rate := uc.resolve(in.Currency, in.ExchangeRate)

	groups := make([]dto.GroupTotalsResponse, 0, len(in.Groups))
	parts := make([]totals.Totals, 0, len(in.Groups))
	for _, g := range in.Groups {
		items, err := normalizeAll(g.Items)
		if err != nil {
			return nil, fmt.Errorf("grupo %q: %w", g.Name, err)
		}
		t := totals.Compute(items)
		parts = append(parts, t)
		groups = append(groups, dto.GroupTotalsResponse{
			Name:   g.Name,
			Totals: dto.NewTotalsResponse(t, currency, rate, uc.currencies.Reference),
		})
	}
	return &dto.CombinedTotalsResponse{
		Groups: groups,
		Total:  dto.NewTotalsResponse(totals.Sum(parts...), currency, rate, uc.currencies.Reference),
	}, nil
}

func (uc *UseCase) resolve(currency string, rate *decimal.Decimal) (string, decimal.Decimal) {
	if currency == "" {
		currency = uc.currencies.Base
	}
	if rate == nil {
		return currency, decimal.Zero
	}
	return currency, *rate
}

// normalizeAll aplica los valores por defecto y rechaza descuentos mayores a 100.
func normalizeAll(in []dto.LineItemRequest) ([]totals.LineItem, error) {
	out := make([]totals.LineItem, 0, len(in))
	for i, r := range in {
		if err := CheckLine(r); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i, err)
		}
		out = append(out, r.Normalized())
	}
	return out, nil
}

var hundred = decimal.NewFromInt(100)

// CheckLine reglas de formulario sobre valores exactos: cantidad > 0, precio >= 0,
// descuento en [0,100], venta >= 0 y tasa en [0,1].
func CheckLine(r dto.LineItemRequest) error {
	switch {
	case !r.Quantity.IsPositive():
		return fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrInvalidInput)
	case r.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	case r.DiscountPercentage != nil && (r.DiscountPercentage.IsNegative() || r.DiscountPercentage.GreaterThan(hundred)):
		return fmt.Errorf("%w: discount_percentage debe estar entre 0 y 100", domain.ErrInvalidInput)
	case r.SalesPercentage != nil && r.SalesPercentage.IsNegative():
		return fmt.Errorf("%w: sales_percentage no puede ser negativo", domain.ErrInvalidInput)
	case r.TaxRate != nil && (r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1))):
		return fmt.Errorf("%w: tax_rate debe estar entre 0 y 1", domain.ErrInvalidInput)
	}
	return nil
}
