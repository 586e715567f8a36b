package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc    *usecase.ProductUseCase
	stock *inventory.StockQueryUseCase
}

// NewProductHandler construye el handler. stock atiende el timeline del producto.
func NewProductHandler(uc *usecase.ProductUseCase, stock *inventory.StockQueryUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock}
}

// Create POST /api/products → 201 {productId}
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"productId": out.ID})
}

// GetByID GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByBarcode GET /api/products/by-barcode/:barcode
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.uc.GetByBarcode(c.Context(), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/products?search=&isActive=&page=&pageSize=
func (h *ProductHandler) List(c *fiber.Ctx) error {
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

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate PATCH /api/products/:id/activate
func (h *ProductHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate PATCH /api/products/:id/deactivate
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *ProductHandler) setActive(c *fiber.Ctx, active bool) error {
	if err := h.uc.SetActive(c.Context(), c.Params("id"), active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Timeline GET /api/products/:id/timeline?fromUtc=&toUtc=&warehouseId=&page=&pageSize=
// Movimientos del producto, del más reciente al más antiguo.
func (h *ProductHandler) Timeline(c *fiber.Ctx) error {
	from, err := queryTime(c, "fromUtc")
	if err != nil {
		return badQuery(c, err)
	}
	to, err := queryTime(c, "toUtc")
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.stock.ProductTimeline(c.Context(), c.Params("id"), dto.TimelineQuery{
		PageRequest: pageRequest(c),
		From:        from,
		To:          to,
		WarehouseID: c.Query("warehouseId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
