package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementsQuery filtros del reporte de movimientos. FromUtc y ToUtc son obligatorios.
type StockMovementsQuery struct {
	PageRequest
	From        time.Time
	To          time.Time
	WarehouseID string
	ProductID   string
}

// LowStockQuery filtros del reporte de bajo stock.
type LowStockQuery struct {
	WarehouseID string
	ProductID   string
}

// LowStockItem celda por debajo del mínimo.
type LowStockItem struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	SKU            string          `json:"sku"`
	WarehouseID    string          `json:"warehouseId"`
	WarehouseCode  string          `json:"warehouseCode"`
	LocationID     *string         `json:"locationId"`
	LocationCode   string          `json:"locationCode,omitempty"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	MinStockLevel  decimal.Decimal `json:"minStockLevel"`
	Shortage       decimal.Decimal `json:"shortage"`
}

// DeadStockQuery filtros del reporte de stock sin movimiento. Days por defecto 30.
type DeadStockQuery struct {
	Days        int
	WarehouseID string
}

// DeadStockItem par producto/bodega sin movimientos recientes.
type DeadStockItem struct {
	ProductID             string          `json:"productId"`
	ProductName           string          `json:"productName"`
	SKU                   string          `json:"sku"`
	WarehouseID           string          `json:"warehouseId"`
	WarehouseCode         string          `json:"warehouseCode"`
	QuantityOnHand        decimal.Decimal `json:"quantityOnHand"`
	LastMovementAt        *time.Time      `json:"lastMovementAtUtc"`
	DaysSinceLastMovement *int            `json:"daysSinceLastMovement"`
}

// StockValuationQuery filtros del reporte de valorización. Mode por defecto Fifo.
type StockValuationQuery struct {
	Mode        string
	WarehouseID string
	ProductID   string
}

// StockValuationItem valor de una celda.
type StockValuationItem struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	SKU            string          `json:"sku"`
	WarehouseID    string          `json:"warehouseId"`
	WarehouseCode  string          `json:"warehouseCode"`
	LocationID     *string         `json:"locationId"`
	LocationCode   string          `json:"locationCode,omitempty"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	TotalValue     decimal.Decimal `json:"totalValue"`
}

// StockValuationReport valorización completa con el total.
type StockValuationReport struct {
	Mode       string               `json:"mode"`
	Items      []StockValuationItem `json:"items"`
	TotalValue decimal.Decimal      `json:"totalValue"`
}

// Formatos de exportación.
const (
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"
)

// ExportedFile documento generado para descarga.
type ExportedFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// DashboardSummary resumen del dashboard.
type DashboardSummary struct {
	TotalProducts    int             `json:"totalProducts"`
	ActiveProducts   int             `json:"activeProducts"`
	TotalWarehouses  int             `json:"totalWarehouses"`
	ActiveWarehouses int             `json:"activeWarehouses"`
	LowStockItems    int             `json:"lowStockItems"`
	DeadStockItems   int             `json:"deadStockItems"`
	TotalStockValue  decimal.Decimal `json:"totalStockValue"`
}
