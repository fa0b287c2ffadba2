// Package money formatea montos para presentación (pantallas, respuestas, reportes).
// Nada de lo que devuelve debe volver a usarse en cálculos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayPlaces decimales usados al mostrar montos.
const DisplayPlaces = 2

// Format redondea a 2 decimales y devuelve el monto con escala fija ("122.40").
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// FormatLocalized agrupa miles según el idioma (es → "1.234.567,89").
func FormatLocalized(d decimal.Decimal, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(d.Round(DisplayPlaces).InexactFloat64(), number.Scale(DisplayPlaces)))
}

// Reference calcula la cifra informativa total / tasa de cambio.
// Devuelve false si la tasa no es positiva.
func Reference(total, exchangeRate decimal.Decimal) (decimal.Decimal, bool) {
	if !exchangeRate.IsPositive() {
		return decimal.Zero, false
	}
	return total.Div(exchangeRate), true
}
