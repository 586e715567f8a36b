package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/reports"
)

// ReportHandler reportes de inventario y su exportación a XLSX/PDF.
type ReportHandler struct {
	reports *reports.ReportUseCase
	export  *reports.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(r *reports.ReportUseCase, e *reports.ExportUseCase) *ReportHandler {
	return &ReportHandler{reports: r, export: e}
}

// StockMovements GET /api/reports/stock-movements?fromUtc=&toUtc=&warehouseId=&productId=&page=&pageSize=
func (h *ReportHandler) StockMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "fromUtc")
	if err != nil {
		return badQuery(c, err)
	}
	to, err := queryTime(c, "toUtc")
	if err != nil {
		return badQuery(c, err)
	}
	out, err := h.reports.StockMovements(c.Context(), dto.StockMovementsQuery{
		PageRequest: pageRequest(c),
		From:        timeOrZero(from),
		To:          timeOrZero(to),
		WarehouseID: c.Query("warehouseId"),
		ProductID:   c.Query("productId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock GET /api/reports/low-stock?warehouseId=&productId=
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStock(c.Context(), dto.LowStockQuery{
		WarehouseID: c.Query("warehouseId"),
		ProductID:   c.Query("productId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeadStock GET /api/reports/dead-stock?days=30&warehouseId=
func (h *ReportHandler) DeadStock(c *fiber.Ctx) error {
	out, err := h.reports.DeadStock(c.Context(), dto.DeadStockQuery{
		Days:        c.QueryInt("days", 0),
		WarehouseID: c.Query("warehouseId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockValuation GET /api/reports/stock-valuation?mode=Fifo|WeightedAverage&warehouseId=&productId=
func (h *ReportHandler) StockValuation(c *fiber.Ctx) error {
	out, err := h.reports.StockValuation(c.Context(), dto.StockValuationQuery{
		Mode:        c.Query("mode"),
		WarehouseID: c.Query("warehouseId"),
		ProductID:   c.Query("productId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/reports/:report/export?format=xlsx|pdf más los filtros del reporte.
// Responde el documento como adjunto.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	from, err := queryTime(c, "fromUtc")
	if err != nil {
		return badQuery(c, err)
	}
	to, err := queryTime(c, "toUtc")
	if err != nil {
		return badQuery(c, err)
	}
	file, err := h.export.Export(c.Context(), c.Params("report"), reports.ExportQuery{
		Format:      c.Query("format"),
		From:        timeOrZero(from),
		To:          timeOrZero(to),
		WarehouseID: c.Query("warehouseId"),
		ProductID:   c.Query("productId"),
		Days:        c.QueryInt("days", 0),
		Mode:        c.Query("mode"),
	})
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	return c.Send(file.Content)
}
