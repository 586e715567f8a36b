package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse salida del login con el token JWT.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	ExpiresAtUtc time.Time `json:"expiresAtUtc"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
}

// MeResponse identidad del usuario autenticado.
type MeResponse struct {
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// UserListItem fila del listado de usuarios.
type UserListItem struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAtUtc"`
}

// UserDetails usuario con sus roles.
type UserDetails struct {
	UserListItem
	Roles     []string  `json:"roles"`
	UpdatedAt time.Time `json:"updatedAtUtc"`
}

// RoleRequest entrada para asignar un rol a un usuario.
type RoleRequest struct {
	Role string `json:"role"`
}

// CreateRoleRequest entrada para crear un rol.
type CreateRoleRequest struct {
	Name string `json:"name"`
}

// ResetPasswordRequest entrada para resetear la contraseña.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BuiltIn bool   `json:"builtIn"`
}

// SetupRequest entrada para inicializar el sistema (primer administrador).
type SetupRequest struct {
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}
