package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// OrderKind tipo de documento de compras. Cada tipo vive en sus propias tablas.
type OrderKind string

const (
	KindPurchaseOrder OrderKind = "purchase_order" // Orden de compra
	KindQuoteRequest  OrderKind = "quote_request"  // Solicitud de cotización
	KindServiceOrder  OrderKind = "service_order"  // Orden de servicio
)

// Valid indica si el tipo es uno de los conocidos.
func (k OrderKind) Valid() bool {
	switch k {
	case KindPurchaseOrder, KindQuoteRequest, KindServiceOrder:
		return true
	}
	return false
}

// NumberPrefix prefijo del consecutivo: OC, SC, OS.
func (k OrderKind) NumberPrefix() string {
	switch k {
	case KindPurchaseOrder:
		return "OC"
	case KindQuoteRequest:
		return "SC"
	case KindServiceOrder:
		return "OS"
	}
	return "DOC"
}

// Categorías de línea. Las órdenes de servicio mezclan ambas.
const (
	CategoryMaterial = "material"
	CategoryService  = "service"
)

// Order cabecera de una orden de compra, solicitud de cotización u orden de servicio.
// Los totales no se guardan: se calculan con el paquete totals a partir de las líneas.
type Order struct {
	ID            string
	CompanyID     string
	Kind          OrderKind
	Number        string
	SupplierID    string
	Currency      string
	ExchangeRate  decimal.Decimal // cero = sin tasa de referencia
	Status        string
	Notes         string
	CreatedBy     string
	SourceQuoteID string // solicitud de cotización de la que proviene (conversión)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea de una orden. TaxRate se guarda ya normalizado (0.16 si venía vacío).
type OrderItem struct {
	ID                 string
	OrderID            string
	Category           string
	MaterialID         string
	Description        string
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	SalesPercentage    decimal.Decimal
	IsExempt           bool
	TaxRate            decimal.Decimal
}

// LineItem vista de la línea para el motor de totales.
func (i *OrderItem) LineItem() totals.LineItem {
	return totals.LineItem{
		Quantity:           i.Quantity,
		UnitPrice:          i.UnitPrice,
		DiscountPercentage: i.DiscountPercentage,
		SalesPercentage:    i.SalesPercentage,
		IsExempt:           i.IsExempt,
		TaxRate:            i.TaxRate,
	}
}

// LineItems convierte las líneas para el motor, en el mismo orden.
func LineItems(items []*OrderItem) []totals.LineItem {
	out := make([]totals.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.LineItem())
	}
	return out
}

// TotalsByCategory calcula un Totals por categoría. Las líneas sin categoría cuentan como material.
func TotalsByCategory(items []*OrderItem) map[string]totals.Totals {
	groups := make(map[string][]totals.LineItem)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = CategoryMaterial
		}
		groups[cat] = append(groups[cat], it.LineItem())
	}
	out := make(map[string]totals.Totals, len(groups))
	for cat, lines := range groups {
		out[cat] = totals.Compute(lines)
	}
	return out
}
