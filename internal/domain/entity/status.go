package entity

// Estados del ciclo de vida de una orden (los tres tipos comparten el flujo).
const (
	StatusDraft    = "DRAFT"    // Borrador, editable
	StatusSent     = "SENT"     // Enviada al proveedor
	StatusApproved = "APPROVED" // Aprobada
	StatusRejected = "REJECTED" // Rechazada
	StatusArchived = "ARCHIVED" // Archivada (solo lectura)
)

// Borrador → Enviada → Aprobada | Rechazada → Archivada.
var statusTransitions = map[string][]string{
	StatusDraft:    {StatusSent},
	StatusSent:     {StatusApproved, StatusRejected},
	StatusApproved: {StatusArchived},
	StatusRejected: {StatusArchived},
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// CanTransition indica si se puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsEditable: solo borradores y enviadas admiten cambios de líneas.
func IsEditable(status string) bool {
	return status == StatusDraft || status == StatusSent
}

// RequiresApprover: aprobar o rechazar exige un rol aprobador.
func RequiresApprover(to string) bool {
	return to == StatusApproved || to == StatusRejected
}
