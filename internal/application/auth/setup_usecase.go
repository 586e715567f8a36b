package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// SetupUseCase inicialización única del sistema: roles integrados + primer administrador.
type SetupUseCase struct {
	tx       SetupTxRunner
	setupKey string
}

// NewSetupUseCase construye el caso de uso. setupKey vacío = sin verificación de header.
func NewSetupUseCase(tx SetupTxRunner, setupKey string) *SetupUseCase {
	return &SetupUseCase{tx: tx, setupKey: setupKey}
}

// Initialize crea los roles integrados que falten y el usuario Admin.
// Falla con ErrAlreadyInitialized si ya existe algún usuario.
func (uc *SetupUseCase) Initialize(ctx context.Context, providedKey string, in dto.SetupRequest) error {
	if uc.setupKey != "" && subtle.ConstantTimeCompare([]byte(providedKey), []byte(uc.setupKey)) != 1 {
		return fmt.Errorf("%w: X-Setup-Key inválido", domain.ErrUnauthorized)
	}
	admin, err := newUser(in.AdminEmail, in.AdminPassword, []string{entity.RoleAdmin})
	if err != nil {
		return err
	}

	return uc.tx.RunSetup(ctx, func(users repository.UserRepository, roles repository.RoleRepository) error {
		n, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAlreadyInitialized
		}
		for _, name := range entity.BuiltInRoles {
			existing, err := roles.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := roles.Create(ctx, &entity.Role{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}); err != nil {
				return err
			}
		}
		return users.Create(ctx, admin)
	})
}
