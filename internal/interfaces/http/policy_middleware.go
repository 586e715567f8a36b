package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// Policy nombre de una política de autorización.
type Policy string

const (
	PolicyAdminOnly      Policy = "AdminOnly"
	PolicyUserManagement Policy = "UserManagement"
	PolicyInventoryRead  Policy = "InventoryRead"
	PolicyInventoryWrite Policy = "InventoryWrite"
	PolicyReportsRead    Policy = "ReportsRead"
	PolicyDashboardRead  Policy = "DashboardRead"
)

var policyRoles = map[Policy][]string{
	PolicyAdminOnly:      {entity.RoleAdmin},
	PolicyUserManagement: {entity.RoleAdmin},
	PolicyInventoryRead:  {entity.RoleAdmin, entity.RoleManager, entity.RoleClerk, entity.RoleAuditor},
	PolicyInventoryWrite: {entity.RoleAdmin, entity.RoleManager, entity.RoleClerk},
	PolicyReportsRead:    {entity.RoleAdmin, entity.RoleManager, entity.RoleAuditor},
	PolicyDashboardRead:  {entity.RoleAdmin, entity.RoleManager, entity.RoleAuditor},
}

// RolesFor roles que satisfacen la política.
func RolesFor(p Policy) []string {
	return policyRoles[p]
}

// RequirePolicy autoriza si el usuario tiene alguno de los roles de la política.
// Debe usarse DESPUÉS de AuthMiddleware. Una política desconocida deniega siempre.
func RequirePolicy(p Policy) fiber.Handler {
	return RequireRole(policyRoles[p]...)
}

// RequireRole autoriza si alguno de los roles del token está en allowed.
//   - 401 si no hay usuario en el contexto (falta AuthMiddleware).
//   - 403 FORBIDDEN si ninguno de sus roles está permitido.
func RequireRole(allowed ...string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		for _, r := range GetRoles(c) {
			if _, ok := set[r]; ok {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"})
	}
}
