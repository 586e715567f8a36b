package auth

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
	"github.com/jhoicas/ims-api/pkg/logger"
)

const minPasswordLen = 8

// UserAdminUseCase administración de usuarios. Cambios de password, estado o roles
// rotan el security stamp (los tokens emitidos dejan de servir) y limpian la caché.
// El cambio en la DB es el que cuenta: si la caché no se puede limpiar la operación
// igual responde éxito y la entrada vieja expira con su TTL.
type UserAdminUseCase struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	sessions SessionCache
	log      *logger.Logger
}

// NewUserAdminUseCase construye el caso de uso. sessions nil = sin caché.
func NewUserAdminUseCase(users repository.UserRepository, roles repository.RoleRepository, sessions SessionCache) *UserAdminUseCase {
	if sessions == nil {
		sessions = noCache{}
	}
	return &UserAdminUseCase{users: users, roles: roles, sessions: sessions, log: logger.Nop()}
}

// WithLogger asigna el logger para los fallos de invalidación de caché.
func (uc *UserAdminUseCase) WithLogger(log *logger.Logger) *UserAdminUseCase {
	uc.log = log
	return uc
}

// Create crea un usuario activo con los roles indicados (deben existir).
func (uc *UserAdminUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserDetails, error) {
	user, err := newUser(in.Email, in.Password, in.Roles)
	if err != nil {
		return nil, err
	}
	for _, r := range user.Roles {
		if err := uc.requireRole(ctx, r); err != nil {
			return nil, err
		}
	}
	existing, err := uc.users.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailAlreadyExists, user.Email)
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserDetails(user), nil
}

// List lista usuarios con búsqueda por email y paginación.
func (uc *UserAdminUseCase) List(ctx context.Context, q dto.ListQuery) (dto.PagedResult[dto.UserListItem], error) {
	page := q.PageRequest.Normalize(dto.DefaultPageSize, dto.MaxPageSize)
	list, total, err := uc.users.List(ctx, repository.ListFilter{Search: q.Search, IsActive: q.IsActive, Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return dto.PagedResult[dto.UserListItem]{}, err
	}
	items := make([]dto.UserListItem, 0, len(list))
	for _, u := range list {
		items = append(items, toUserListItem(u))
	}
	return dto.NewPagedResult(items, page, total), nil
}

// Get devuelve el usuario con sus roles.
func (uc *UserAdminUseCase) Get(ctx context.Context, id string) (*dto.UserDetails, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDetails(user), nil
}

// AssignRole agrega un rol existente. Si ya lo tiene no hace nada.
func (uc *UserAdminUseCase) AssignRole(ctx context.Context, id, role string) error {
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.requireRole(ctx, role); err != nil {
		return err
	}
	if user.HasRole(role) {
		return nil
	}
	if err := uc.users.AddRole(ctx, id, role, NewSecurityStamp()); err != nil {
		return err
	}
	uc.invalidate(ctx, id, "assign_role")
	return nil
}

// RemoveRole quita un rol. Si no lo tiene no hace nada.
func (uc *UserAdminUseCase) RemoveRole(ctx context.Context, id, role string) error {
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasRole(role) {
		return nil
	}
	if err := uc.users.RemoveRole(ctx, id, role, NewSecurityStamp()); err != nil {
		return err
	}
	uc.invalidate(ctx, id, "remove_role")
	return nil
}

// ResetPassword reemplaza la contraseña.
func (uc *UserAdminUseCase) ResetPassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, id, string(hash), NewSecurityStamp()); err != nil {
		return err
	}
	uc.invalidate(ctx, id, "reset_password")
	return nil
}

// SetActive activa o desactiva el usuario.
func (uc *UserAdminUseCase) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.users.SetActive(ctx, id, active, NewSecurityStamp()); err != nil {
		return err
	}
	uc.invalidate(ctx, id, "set_active")
	return nil
}

// invalidate borra la sesión cacheada después de rotar el stamp en la DB.
func (uc *UserAdminUseCase) invalidate(ctx context.Context, id, op string) {
	if err := uc.sessions.Delete(ctx, id); err != nil {
		uc.log.Warn().Err(err).
			Str("user_id", id).
			Str("op", op).
			Msg("no se pudo invalidar la sesión en caché; expira con su TTL")
	}
}

func (uc *UserAdminUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserAdminUseCase) requireRole(ctx context.Context, name string) error {
	role, err := uc.roles.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: rol %q", domain.ErrNotFound, name)
	}
	return nil
}

// newUser valida email y password y arma el usuario activo con stamp nuevo.
func newUser(email, password string, roles []string) (*entity.User, error) {
	email = NormalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &entity.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		Roles:         dedupe(roles),
		IsActive:      true,
		SecurityStamp: NewSecurityStamp(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewSecurityStamp genera un stamp aleatorio.
func NewSecurityStamp() string {
	return uuid.New().String()
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func toUserListItem(u *entity.User) dto.UserListItem {
	return dto.UserListItem{ID: u.ID, Email: u.Email, IsActive: u.IsActive, CreatedAt: u.CreatedAt}
}

func toUserDetails(u *entity.User) *dto.UserDetails {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return &dto.UserDetails{UserListItem: toUserListItem(u), Roles: roles, UpdatedAt: u.UpdatedAt}
}
