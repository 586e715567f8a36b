package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: se toma la primera coincidencia con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInactive, fiber.StatusConflict, "INACTIVE"},
	{domain.ErrAlreadyInitialized, fiber.StatusConflict, "ALREADY_INITIALIZED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// statusFor traduce un error de la aplicación a status HTTP y código.
// ok=false si el error no es de dominio (error interno).
func statusFor(err error) (status int, code string, ok bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, true
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, "HTTP_ERROR", true
	}
	return fiber.StatusInternalServerError, "INTERNAL", false
}

// respondError responde el error de un use case con el cuerpo estándar dto.ErrorResponse.
// Los errores internos se devuelven a Fiber para que el ErrorHandler los registre.
func respondError(c *fiber.Ctx, err error) error {
	status, code, ok := statusFor(err)
	if !ok {
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// ErrorHandler manejador global de Fiber. Fuera de development no expone el detalle de
// los errores internos.
func ErrorHandler(log *logger.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, ok := statusFor(err)
		if ok {
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("error no controlado")
		msg := "error interno del servidor"
		if development {
			msg = err.Error()
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badQuery(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
}
