package entity

import "time"

// Material insumo o repuesto que se compra. El precio no vive aquí:
// cada orden registra el precio pagado en el historial de precios.
type Material struct {
	ID          string
	CompanyID   string
	Code        string // código único por empresa
	Name        string
	Description string
	Unit        string // unidad de medida (UND, KG, M, ...)
	IsExempt    bool   // exento de IVA por defecto al agregarlo a una orden
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
