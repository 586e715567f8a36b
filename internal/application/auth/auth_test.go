package auth_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/pkg/logger"
)

var (
	ctx    = context.Background()
	jwtCfg = auth.JWTConfig{Secret: "test-secret-key-ims", ExpMinutes: 60, Issuer: "ims-api", Audience: "ims-web"}
)

type env struct {
	users    *memUsers
	roles    *memRoles
	sessions *memSessions
	auth     *auth.AuthUseCase
	admin    *auth.UserAdminUseCase
}

func newEnv() *env {
	users := newMemUsers()
	roles := newMemRoles(users, entity.BuiltInRoles...)
	sessions := newMemSessions()
	return &env{
		users:    users,
		roles:    roles,
		sessions: sessions,
		auth:     auth.NewAuthUseCase(users, sessions, jwtCfg),
		admin:    auth.NewUserAdminUseCase(users, roles, sessions),
	}
}

func (e *env) createUser(t *testing.T, email string, roles ...string) *dto.UserDetails {
	t.Helper()
	u, err := e.admin.Create(ctx, dto.CreateUserRequest{Email: email, Password: "secreto123", Roles: roles})
	require.NoError(t, err)
	return u
}

func (e *env) login(t *testing.T, email string) *dto.AuthResponse {
	t.Helper()
	res, err := e.auth.Login(ctx, dto.LoginRequest{Email: email, Password: "secreto123"})
	require.NoError(t, err)
	return res
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_TokenConRolesYStamp(t *testing.T) {
	e := newEnv()
	u := e.createUser(t, "Clerk@IMS.local", entity.RoleClerk)
	assert.Equal(t, "clerk@ims.local", u.Email, "email normalizado")

	res := e.login(t, " clerk@ims.local ")
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, []string{entity.RoleClerk}, res.Roles)

	claims, err := e.auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, e.users.items[u.ID].SecurityStamp, claims.SecurityStamp)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	e := newEnv()
	u := e.createUser(t, "a@ims.local")

	_, err := e.auth.Login(ctx, dto.LoginRequest{Email: "a@ims.local", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.auth.Login(ctx, dto.LoginRequest{Email: "nadie@ims.local", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, e.admin.SetActive(ctx, u.ID, false))
	_, err = e.auth.Login(ctx, dto.LoginRequest{Email: "a@ims.local", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inactivo")
}

// ── Sesiones ─────────────────────────────────────────────────────────────────

func TestAuthenticate_UsaCache(t *testing.T) {
	e := newEnv()
	e.createUser(t, "a@ims.local")
	token := e.login(t, "a@ims.local").AccessToken

	_, err := e.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	_, err = e.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, e.sessions.hits, "la segunda validación sale de la caché")
}

func TestAuthenticate_StampRotadoInvalidaToken(t *testing.T) {
	cases := map[string]func(e *env, id string) error{
		"reset de contraseña": func(e *env, id string) error { return e.admin.ResetPassword(ctx, id, "nueva-clave-1") },
		"desactivación":       func(e *env, id string) error { return e.admin.SetActive(ctx, id, false) },
		"nuevo rol":           func(e *env, id string) error { return e.admin.AssignRole(ctx, id, entity.RoleManager) },
	}
	for name, change := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEnv()
			u := e.createUser(t, "a@ims.local", entity.RoleClerk)
			token := e.login(t, "a@ims.local").AccessToken
			_, err := e.auth.Authenticate(ctx, token) // llena la caché
			require.NoError(t, err)

			require.NoError(t, change(e, u.ID))

			_, err = e.auth.Authenticate(ctx, token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestUserAdmin_FalloDeCacheNoRevierteElCambio(t *testing.T) {
	users := newMemUsers()
	roles := newMemRoles(users, entity.BuiltInRoles...)
	sessions := &failingDeleteSessions{memSessions: newMemSessions()}
	var logs bytes.Buffer
	admin := auth.NewUserAdminUseCase(users, roles, sessions).
		WithLogger(logger.New(logger.Config{Env: "test", Level: "warn", Output: &logs}))

	u, err := admin.Create(ctx, dto.CreateUserRequest{Email: "a@ims.local", Password: "secreto123", Roles: []string{entity.RoleClerk}})
	require.NoError(t, err)
	before := users.items[u.ID].SecurityStamp

	ops := map[string]func() error{
		"reset_password": func() error { return admin.ResetPassword(ctx, u.ID, "nueva-clave-1") },
		"assign_role":    func() error { return admin.AssignRole(ctx, u.ID, entity.RoleAuditor) },
		"remove_role":    func() error { return admin.RemoveRole(ctx, u.ID, entity.RoleAuditor) },
		"set_active":     func() error { return admin.SetActive(ctx, u.ID, false) },
	}
	for _, op := range []string{"reset_password", "assign_role", "remove_role", "set_active"} {
		require.NoError(t, ops[op](), op)
		assert.Contains(t, logs.String(), `"op":"`+op+`"`)
	}

	assert.Equal(t, 4, sessions.deletes)
	assert.NotEqual(t, before, users.items[u.ID].SecurityStamp, "el stamp se rota aunque la caché falle")
	assert.False(t, users.items[u.ID].IsActive)
	assert.Contains(t, logs.String(), "no se pudo invalidar la sesión")
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	e := newEnv()
	_, err := e.auth.Authenticate(ctx, "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestCreateUser_Validaciones(t *testing.T) {
	e := newEnv()
	e.createUser(t, "a@ims.local")

	_, err := e.admin.Create(ctx, dto.CreateUserRequest{Email: "A@ims.local", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = e.admin.Create(ctx, dto.CreateUserRequest{Email: "b@ims.local", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.admin.Create(ctx, dto.CreateUserRequest{Email: "no-email", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.admin.Create(ctx, dto.CreateUserRequest{Email: "c@ims.local", Password: "secreto123", Roles: []string{"Inexistente"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignRemoveRole(t *testing.T) {
	e := newEnv()
	u := e.createUser(t, "a@ims.local")

	require.NoError(t, e.admin.AssignRole(ctx, u.ID, entity.RoleAuditor))
	require.NoError(t, e.admin.AssignRole(ctx, u.ID, entity.RoleAuditor), "idempotente")
	got, err := e.admin.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleAuditor}, got.Roles)

	require.NoError(t, e.admin.RemoveRole(ctx, u.ID, entity.RoleAuditor))
	got, err = e.admin.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Roles)

	_, err = e.admin.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ── Roles ────────────────────────────────────────────────────────────────────

func TestDeleteRole_IntegradoOAsignadoEsConflicto(t *testing.T) {
	e := newEnv()
	roles := auth.NewRoleAdminUseCase(e.roles)

	_, err := roles.Create(ctx, "Supervisor")
	require.NoError(t, err)
	_, err = roles.Create(ctx, "Supervisor")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.ErrorIs(t, roles.Delete(ctx, entity.RoleAdmin), domain.ErrConflict)

	e.createUser(t, "s@ims.local", "Supervisor")
	assert.ErrorIs(t, roles.Delete(ctx, "Supervisor"), domain.ErrConflict)

	_, err = roles.Create(ctx, "Temporal")
	require.NoError(t, err)
	assert.NoError(t, roles.Delete(ctx, "Temporal"))
	assert.ErrorIs(t, roles.Delete(ctx, "Temporal"), domain.ErrNotFound)

	list, err := roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

// ── Setup ────────────────────────────────────────────────────────────────────

func TestSetup_UnaSolaVez(t *testing.T) {
	users := newMemUsers()
	roles := newMemRoles(users)
	setup := auth.NewSetupUseCase(memSetupTx{users: users, roles: roles}, "clave-setup")
	req := dto.SetupRequest{AdminEmail: "admin@ims.local", AdminPassword: "admin-clave"}

	err := setup.Initialize(ctx, "otra", req)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, setup.Initialize(ctx, "clave-setup", req))
	assert.Len(t, roles.items, len(entity.BuiltInRoles))
	admin, _ := users.GetByEmail(ctx, "admin@ims.local")
	require.NotNil(t, admin)
	assert.True(t, admin.HasRole(entity.RoleAdmin))

	err = setup.Initialize(ctx, "clave-setup", req)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}
