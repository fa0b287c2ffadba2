package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	RIF     string `json:"rif" validate:"required,min=1,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=500"`
}

// UpdateSupplierRequest campos opcionales.
type UpdateSupplierRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	RIF       string    `json:"rif"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Unit        string `json:"unit" validate:"max=20"`
	IsExempt    bool   `json:"is_exempt"`
}

// UpdateMaterialRequest campos opcionales.
type UpdateMaterialRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Unit        *string `json:"unit" validate:"omitempty,max=20"`
	IsExempt    *bool   `json:"is_exempt"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	IsExempt    bool      `json:"is_exempt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PriceHistoryResponse precio pagado por un material en una orden.
type PriceHistoryResponse struct {
	ID           string           `json:"id"`
	SupplierID   string           `json:"supplier_id"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	Currency     string           `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	OrderID      string           `json:"order_id"`
	OrderKind    string           `json:"order_kind"`
	CreatedAt    time.Time        `json:"created_at"`
}
