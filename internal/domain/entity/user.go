package entity

import "time"

// Roles integrados.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleClerk   = "Clerk"
	RoleAuditor = "Auditor"
)

// BuiltInRoles roles que se crean en el setup y no se pueden eliminar.
var BuiltInRoles = []string{RoleAdmin, RoleManager, RoleClerk, RoleAuditor}

// IsBuiltInRole indica si el rol es uno de los integrados.
func IsBuiltInRole(name string) bool {
	for _, r := range BuiltInRoles {
		if r == name {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema.
// SecurityStamp cambia con cada cambio de contraseña, roles o estado; los tokens lo llevan en "sstamp".
type User struct {
	ID            string
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	Roles         []string
	IsActive      bool
	SecurityStamp string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole indica si el usuario tiene el rol.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
