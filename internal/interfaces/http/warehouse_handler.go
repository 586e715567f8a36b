package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/usecase"
)

// WarehouseHandler maneja las peticiones HTTP para Warehouse (protegido).
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create POST /api/warehouses → 201 {warehouseId}
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.WarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"warehouseId": out.ID})
}

// GetByID GET /api/warehouses/:id
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/warehouses?search=&isActive=&page=&pageSize=
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
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

// Update PUT /api/warehouses/:id
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.WarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate PATCH /api/warehouses/:id/activate
func (h *WarehouseHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate PATCH /api/warehouses/:id/deactivate
func (h *WarehouseHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *WarehouseHandler) setActive(c *fiber.Ctx, active bool) error {
	if err := h.uc.SetActive(c.Context(), c.Params("id"), active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LocationHandler ubicaciones anidadas bajo una bodega.
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Create POST /api/warehouses/:warehouseId/locations → 201 {locationId}
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), c.Params("warehouseId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"locationId": out.ID})
}

// GetByID GET /api/warehouses/:warehouseId/locations/:id
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("warehouseId"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/warehouses/:warehouseId/locations?search=&isActive=&page=&pageSize=
func (h *LocationHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.uc.List(c.Context(), c.Params("warehouseId"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/warehouses/:warehouseId/locations/:id
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("warehouseId"), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate PATCH /api/warehouses/:warehouseId/locations/:id/activate
func (h *LocationHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate PATCH /api/warehouses/:warehouseId/locations/:id/deactivate
func (h *LocationHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *LocationHandler) setActive(c *fiber.Ctx, active bool) error {
	if err := h.uc.SetActive(c.Context(), c.Params("warehouseId"), c.Params("id"), active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
