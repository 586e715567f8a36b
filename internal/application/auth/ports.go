package auth

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// SessionState lo mínimo para validar un token sin ir a la DB.
type SessionState struct {
	Active        bool   `json:"active"`
	SecurityStamp string `json:"stamp"`
}

// SessionCache caché de SessionState por usuario (Redis en producción).
// Get devuelve (nil, nil) si no hay entrada.
type SessionCache interface {
	Get(ctx context.Context, userID string) (*SessionState, error)
	Set(ctx context.Context, userID string, s SessionState) error
	Delete(ctx context.Context, userID string) error
}

// SetupTxRunner ejecuta la inicialización en una transacción serializada
// (dos inicializaciones concurrentes no pueden crear dos administradores).
type SetupTxRunner interface {
	RunSetup(ctx context.Context, fn func(users repository.UserRepository, roles repository.RoleRepository) error) error
}

// noCache se usa cuando no hay Redis: cada request consulta la DB.
type noCache struct{}

func (noCache) Get(context.Context, string) (*SessionState, error) { return nil, nil }
func (noCache) Set(context.Context, string, SessionState) error    { return nil }
func (noCache) Delete(context.Context, string) error               { return nil }
