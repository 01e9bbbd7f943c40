package entity

import "time"

// Roles válidos para Identity.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleCommercial = "commercial"
	RoleSecretaire = "secretaire"
	RoleManager    = "manager"
	RoleComptable  = "comptable"
	RoleClient     = "client"
)

// AllRoles en orden de jerarquía descendente.
var AllRoles = []string{
	RoleSuperAdmin, RoleAdmin, RoleManager, RoleCommercial, RoleSecretaire, RoleComptable, RoleClient,
}

// StaffRoles todos los roles internos (todo excepto client).
var StaffRoles = []string{
	RoleSuperAdmin, RoleAdmin, RoleManager, RoleCommercial, RoleSecretaire, RoleComptable,
}

// IsValidRole informa si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity representa el perfil autenticado (personal o cliente).
// Se crea al registrarse (siempre rol client) o se aprovisiona externamente para el personal.
// Nunca se elimina desde la API: la baja es IsActive=false.
type Identity struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	IsActive     bool
	StoreID      string // tienda principal (opcional)
	Phone        string
	LastLoginAt  *time.Time
	LastLocation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff informa si la identidad pertenece al personal interno.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role != RoleClient
}
