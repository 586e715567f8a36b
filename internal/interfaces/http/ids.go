package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/ims-api/internal/domain"
)

// UUIDParams exige que los parámetros de ruta indicados sean UUID.
// Un id mal formado no identifica ningún recurso: responde 404 sin llegar a la base.
func UUIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if !isUUID(c.Params(name)) {
				return respondError(c, fmt.Errorf("%w: %s %q", domain.ErrNotFound, name, c.Params(name)))
			}
		}
		return c.Next()
	}
}

// UUIDQuery valida los filtros opcionales por id. Vacío es "sin filtro"; otro valor debe ser UUID (400).
func UUIDQuery(keys ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, key := range keys {
			raw := strings.TrimSpace(c.Query(key))
			if raw == "" {
				continue
			}
			if !isUUID(raw) {
				return badQuery(c, fmt.Errorf("%s debe ser un UUID", key))
			}
		}
		return c.Next()
	}
}

// bodyIDs valida ids obligatorios del cuerpo.
type bodyIDs map[string]string

func (ids bodyIDs) optional(field string, v *string) bodyIDs {
	if v != nil && strings.TrimSpace(*v) != "" {
		ids[field] = *v
	}
	return ids
}

func (ids bodyIDs) validate() error {
	for field, v := range ids {
		if !isUUID(strings.TrimSpace(v)) {
			return fmt.Errorf("%w: %s debe ser un UUID", domain.ErrInvalidInput, field)
		}
	}
	return nil
}

// isUUID solo acepta la forma canónica de 36 caracteres, la misma que escribe la API.
func isUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}
