package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// RoleAdminUseCase administración de roles.
type RoleAdminUseCase struct {
	roles repository.RoleRepository
}

// NewRoleAdminUseCase construye el caso de uso.
func NewRoleAdminUseCase(roles repository.RoleRepository) *RoleAdminUseCase {
	return &RoleAdminUseCase{roles: roles}
}

// List devuelve todos los roles marcando los integrados.
func (uc *RoleAdminUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RoleResponse{ID: r.ID, Name: r.Name, BuiltIn: entity.IsBuiltInRole(r.Name)})
	}
	return out, nil
}

// Create crea un rol nuevo.
func (uc *RoleAdminUseCase) Create(ctx context.Context, name string) (*dto.RoleResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, fmt.Errorf("%w: el nombre del rol es obligatorio (máx. 64)", domain.ErrInvalidInput)
	}
	existing, err := uc.roles.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el rol %s ya existe", domain.ErrDuplicate, name)
	}
	role := &entity.Role{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return &dto.RoleResponse{ID: role.ID, Name: role.Name, BuiltIn: entity.IsBuiltInRole(role.Name)}, nil
}

// Delete elimina un rol. Los integrados y los asignados a algún usuario no se pueden borrar.
func (uc *RoleAdminUseCase) Delete(ctx context.Context, name string) error {
	role, err := uc.roles.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: rol %q", domain.ErrNotFound, name)
	}
	if entity.IsBuiltInRole(role.Name) {
		return fmt.Errorf("%w: el rol %s es integrado", domain.ErrConflict, role.Name)
	}
	n, err := uc.roles.CountAssignments(ctx, role.Name)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el rol %s está asignado a %d usuario(s)", domain.ErrConflict, role.Name, n)
	}
	return uc.roles.Delete(ctx, role.Name)
}
