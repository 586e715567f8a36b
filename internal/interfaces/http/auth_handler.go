package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/dto"
)

// AuthHandler maneja login e identidad del usuario.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me GET /api/auth/me. Responde la identidad que viaja en el token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	roles := GetRoles(c)
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(dto.MeResponse{UserID: GetUserID(c), Email: GetEmail(c), Roles: roles})
}

// SetupHandler inicialización del sistema (primer administrador).
type SetupHandler struct {
	uc *auth.SetupUseCase
}

// NewSetupHandler construye el handler.
func NewSetupHandler(uc *auth.SetupUseCase) *SetupHandler {
	return &SetupHandler{uc: uc}
}

// Initialize POST /api/setup/initialize. Anónimo; protegido por el header X-Setup-Key.
func (h *SetupHandler) Initialize(c *fiber.Ctx) error {
	var in dto.SetupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Initialize(c.Context(), c.Get("X-Setup-Key"), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(true)
}
