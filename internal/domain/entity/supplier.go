package entity

import "time"

// Supplier proveedor de la empresa (compras).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	RIF       string // Registro de Información Fiscal
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
