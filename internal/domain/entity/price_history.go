package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory precio pagado por un material en una orden. Los registros son inmutables.
type PriceHistory struct {
	ID           string
	CompanyID    string
	MaterialID   string
	SupplierID   string
	UnitPrice    decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	OrderID      string
	OrderKind    OrderKind
	CreatedAt    time.Time
}
