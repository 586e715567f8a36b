package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/usecase"
)

// LookupHandler opciones livianas para selectores del frontend.
type LookupHandler struct {
	uc *usecase.LookupUseCase
}

// NewLookupHandler construye el handler.
func NewLookupHandler(uc *usecase.LookupUseCase) *LookupHandler {
	return &LookupHandler{uc: uc}
}

// Products GET /api/lookups/products?search=&activeOnly=&take=
func (h *LookupHandler) Products(c *fiber.Ctx) error {
	q, err := lookupQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.Products(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Warehouses GET /api/lookups/warehouses?activeOnly=
func (h *LookupHandler) Warehouses(c *fiber.Ctx) error {
	q, err := lookupQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.Warehouses(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Locations GET /api/lookups/warehouses/:warehouseId/locations?search=&activeOnly=&take=
func (h *LookupHandler) Locations(c *fiber.Ctx) error {
	q, err := lookupQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.Locations(c.Context(), c.Params("warehouseId"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
