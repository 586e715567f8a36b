package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
	stock  *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, stock *inventory.StockQueryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, stock: stock}
}

// Receive POST /api/inventory/receive → 201 {transactionId}
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := cellIDs(in.ProductID, in.WarehouseID, in.LocationID).validate(); err != nil {
		return respondError(c, err)
	}
	return h.created(c)(h.ledger.Receive(c.Context(), GetUserID(c), in))
}

// Issue POST /api/inventory/issue → 201 {transactionId}
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := cellIDs(in.ProductID, in.WarehouseID, in.LocationID).validate(); err != nil {
		return respondError(c, err)
	}
	return h.created(c)(h.ledger.Issue(c.Context(), GetUserID(c), in))
}

// Transfer POST /api/inventory/transfer → 201 {transactionId}
// El id es el de la salida; la entrada comparte correlationId.
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ids := bodyIDs{"productId": in.ProductID, "fromWarehouseId": in.FromWarehouseID, "toWarehouseId": in.ToWarehouseID}.
		optional("fromLocationId", in.FromLocationID).
		optional("toLocationId", in.ToLocationID)
	if err := ids.validate(); err != nil {
		return respondError(c, err)
	}
	return h.created(c)(h.ledger.Transfer(c.Context(), GetUserID(c), in))
}

// Adjust POST /api/inventory/adjust → 201 {transactionId}
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := cellIDs(in.ProductID, in.WarehouseID, in.LocationID).validate(); err != nil {
		return respondError(c, err)
	}
	return h.created(c)(h.ledger.Adjust(c.Context(), GetUserID(c), in))
}

func cellIDs(productID, warehouseID string, locationID *string) bodyIDs {
	return bodyIDs{"productId": productID, "warehouseId": warehouseID}.optional("locationId", locationID)
}

func (h *InventoryHandler) created(c *fiber.Ctx) func(string, error) error {
	return func(id string, err error) error {
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.TransactionCreatedResponse{TransactionID: id})
	}
}

// StockOverview GET /api/inventory/stock-overview?warehouseId=&productId=&lowStockOnly=
func (h *InventoryHandler) StockOverview(c *fiber.Ctx) error {
	lowOnly, err := queryBool(c, "lowStockOnly")
	if err != nil {
		return badQuery(c, err)
	}
	q := dto.StockOverviewQuery{
		WarehouseID:  c.Query("warehouseId"),
		ProductID:    c.Query("productId"),
		LowStockOnly: lowOnly != nil && *lowOnly,
	}
	out, err := h.stock.StockOverview(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile GET /api/inventory/reconcile. Compara existencias, ledger y capas de costo.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.stock.Reconcile(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
