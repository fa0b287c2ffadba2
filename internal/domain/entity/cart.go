package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/totals"
)

// CartItem línea en preparación. Los campos numéricos ya están normalizados.
type CartItem struct {
	Category           string          `json:"category"`
	MaterialID         string          `json:"material_id,omitempty"`
	Description        string          `json:"description"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	SalesPercentage    decimal.Decimal `json:"sales_percentage"`
	IsExempt           bool            `json:"is_exempt"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
}

// Cart borrador de líneas del flujo de creación de órdenes, uno por usuario.
// Lo posee el flujo que crea la orden; el motor de totales solo recibe Snapshot().
type Cart struct {
	UserID    string     `json:"user_id"`
	CompanyID string     `json:"company_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart crea un carrito vacío.
func NewCart(userID, companyID string) *Cart {
	return &Cart{UserID: userID, CompanyID: companyID, Items: []CartItem{}, UpdatedAt: time.Now()}
}

// Add agrega una línea al final.
func (c *Cart) Add(item CartItem) {
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()
}

// Update reemplaza la línea en index.
func (c *Cart) Update(index int, item CartItem) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items[index] = item
	c.UpdatedAt = time.Now()
	return true
}

// Remove elimina la línea en index conservando el orden del resto.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items = append(c.Items[:index:index], c.Items[index+1:]...)
	c.UpdatedAt = time.Now()
	return true
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now()
}

// Snapshot copia inmutable de las líneas para el motor de totales.
func (c *Cart) Snapshot() []totals.LineItem {
	out := make([]totals.LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.LineItem())
	}
	return out
}

// LineItem vista de la línea para el motor de totales.
func (it CartItem) LineItem() totals.LineItem {
	return totals.LineItem{
		Quantity:           it.Quantity,
		UnitPrice:          it.UnitPrice,
		DiscountPercentage: it.DiscountPercentage,
		SalesPercentage:    it.SalesPercentage,
		IsExempt:           it.IsExempt,
		TaxRate:            it.TaxRate,
	}
}
