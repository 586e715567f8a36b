package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/repository"
	"github.com/jhoicas/ims-api/pkg/jwt"
)

// JWTConfig configuración para generación y validación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
	Audience   string
}

func (c JWTConfig) options() jwt.Options {
	return jwt.Options{Issuer: c.Issuer, Audience: c.Audience, ExpMinutes: c.ExpMinutes}
}

// AuthUseCase login y validación de sesiones.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions SessionCache
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. sessions nil = sin caché.
func NewAuthUseCase(userRepo repository.UserRepository, sessions SessionCache, jwtCfg JWTConfig) *AuthUseCase {
	if sessions == nil {
		sessions = noCache{}
	}
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Login verifica email/password y genera el JWT con roles y security stamp.
// Usuario inexistente, password incorrecto o usuario inactivo devuelven ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrUnauthorized)
	}
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:        user.ID,
		Email:         user.Email,
		Roles:         roles,
		SecurityStamp: user.SecurityStamp,
	}, uc.jwtCfg.options())
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  token,
		ExpiresAtUtc: exp,
		UserID:       user.ID,
		Email:        user.Email,
		Roles:        roles,
	}, nil
}

// Authenticate valida el token y la sesión: el usuario existe, está activo y el stamp
// del token coincide con el actual. Usa la caché de sesiones si está configurada.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, uc.jwtCfg.options())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	state, err := uc.session(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if state == nil || !state.Active {
		return nil, fmt.Errorf("%w: usuario inexistente o inactivo", domain.ErrUnauthorized)
	}
	if state.SecurityStamp != claims.SecurityStamp {
		return nil, fmt.Errorf("%w: la sesión fue revocada", domain.ErrUnauthorized)
	}
	return claims, nil
}

func (uc *AuthUseCase) session(ctx context.Context, userID string) (*SessionState, error) {
	// Un fallo de la caché no bloquea la autenticación: se cae a la DB.
	if cached, err := uc.sessions.Get(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	state := SessionState{Active: user.IsActive, SecurityStamp: user.SecurityStamp}
	_ = uc.sessions.Set(ctx, userID, state)
	return &state, nil
}

// NormalizeEmail trim + minúsculas.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}
