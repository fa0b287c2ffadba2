package entity

// Roles del token. Solo admin y gerente aprueban o rechazan órdenes.
const (
	RoleAdmin   = "admin"
	RoleManager = "gerente"
	RoleBuyer   = "comprador"
)

// CanApprove indica si el rol puede aprobar o rechazar.
func CanApprove(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
