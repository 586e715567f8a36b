package repository

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los roles del usuario se cargan en GetByID / GetByEmail.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f ListFilter) ([]*entity.User, int, error)
	Count(ctx context.Context) (int, error)

	// Los métodos siguientes reemplazan el security stamp por el recibido.
	UpdatePassword(ctx context.Context, id, passwordHash, stamp string) error
	SetActive(ctx context.Context, id string, active bool, stamp string) error
	AddRole(ctx context.Context, userID, role, stamp string) error
	RemoveRole(ctx context.Context, userID, role, stamp string) error
}

// RoleRepository define el puerto de persistencia para Role.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
	Delete(ctx context.Context, name string) error
	CountAssignments(ctx context.Context, name string) (int, error)
}
