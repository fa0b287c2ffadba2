package entity

import "time"

// Company organización/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	RIF       string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModulePurchasing = "purchasing"
	ModuleReports    = "reports"
)
