package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/dto"
)

// UserAdminHandler administración de usuarios (política UserManagement).
type UserAdminHandler struct {
	uc *auth.UserAdminUseCase
}

// NewUserAdminHandler construye el handler.
func NewUserAdminHandler(uc *auth.UserAdminUseCase) *UserAdminHandler {
	return &UserAdminHandler{uc: uc}
}

// List GET /api/admin/users?search=&page=&pageSize=
func (h *UserAdminHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/admin/users
func (h *UserAdminHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/admin/users/:id
func (h *UserAdminHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignRole POST /api/admin/users/:id/roles
func (h *UserAdminHandler) AssignRole(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.AssignRole(c.Context(), c.Params("id"), in.Role); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveRole DELETE /api/admin/users/:id/roles/:role
func (h *UserAdminHandler) RemoveRole(c *fiber.Ctx) error {
	if err := h.uc.RemoveRole(c.Context(), c.Params("id"), c.Params("role")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword POST /api/admin/users/:id/reset-password
func (h *UserAdminHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ResetPassword(c.Context(), c.Params("id"), in.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate PATCH /api/admin/users/:id/activate
func (h *UserAdminHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate PATCH /api/admin/users/:id/deactivate
func (h *UserAdminHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *UserAdminHandler) setActive(c *fiber.Ctx, active bool) error {
	if err := h.uc.SetActive(c.Context(), c.Params("id"), active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RoleAdminHandler administración de roles (política AdminOnly).
type RoleAdminHandler struct {
	uc *auth.RoleAdminUseCase
}

// NewRoleAdminHandler construye el handler.
func NewRoleAdminHandler(uc *auth.RoleAdminUseCase) *RoleAdminHandler {
	return &RoleAdminHandler{uc: uc}
}

// List GET /api/admin/roles
func (h *RoleAdminHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/admin/roles
func (h *RoleAdminHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /api/admin/roles/:name. Los roles integrados o asignados responden 409.
func (h *RoleAdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("name")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
