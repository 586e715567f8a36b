package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference referencia externa opcional de un movimiento (orden de compra, pedido...).
type Reference struct {
	ReferenceType string `json:"referenceType,omitempty"`
	ReferenceID   string `json:"referenceId,omitempty"`
}

// ReceiveRequest body para POST /api/inventory/receive.
// UnitCost nil = se usa el costo promedio actual del producto.
type ReceiveRequest struct {
	ProductID   string           `json:"productId"`
	WarehouseID string           `json:"warehouseId"`
	LocationID  *string          `json:"locationId,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unitCost,omitempty"`
	Reference
}

// IssueRequest body para POST /api/inventory/issue.
type IssueRequest struct {
	ProductID   string          `json:"productId"`
	WarehouseID string          `json:"warehouseId"`
	LocationID  *string         `json:"locationId,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ProductID       string          `json:"productId"`
	FromWarehouseID string          `json:"fromWarehouseId"`
	FromLocationID  *string         `json:"fromLocationId,omitempty"`
	ToWarehouseID   string          `json:"toWarehouseId"`
	ToLocationID    *string         `json:"toLocationId,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference
}

// AdjustRequest body para POST /api/inventory/adjust. Reason es obligatorio.
type AdjustRequest struct {
	ProductID     string          `json:"productId"`
	WarehouseID   string          `json:"warehouseId"`
	LocationID    *string         `json:"locationId,omitempty"`
	DeltaQuantity decimal.Decimal `json:"deltaQuantity"`
	Reason        string          `json:"reason"`
	Reference
}

// TransactionCreatedResponse respuesta de los movimientos.
type TransactionCreatedResponse struct {
	TransactionID string `json:"transactionId"`
}

// StockOverviewQuery filtros de GET /api/inventory/stock-overview.
type StockOverviewQuery struct {
	WarehouseID  string
	ProductID    string
	LowStockOnly bool
}

// StockOverviewItem celda de existencias.
type StockOverviewItem struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	SKU            string          `json:"sku"`
	WarehouseID    string          `json:"warehouseId"`
	WarehouseCode  string          `json:"warehouseCode"`
	WarehouseName  string          `json:"warehouseName"`
	LocationID     *string         `json:"locationId"`
	LocationCode   string          `json:"locationCode,omitempty"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	MinStockLevel  decimal.Decimal `json:"minStockLevel"`
	IsLowStock     bool            `json:"isLowStock"`
	UpdatedAt      time.Time       `json:"updatedAtUtc"`
}

// StockMovement fila del ledger para timeline y reporte de movimientos.
type StockMovement struct {
	TransactionID string           `json:"transactionId"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	SKU           string           `json:"sku"`
	WarehouseID   string           `json:"warehouseId"`
	WarehouseCode string           `json:"warehouseCode"`
	LocationID    *string          `json:"locationId"`
	LocationCode  string           `json:"locationCode,omitempty"`
	Type          string           `json:"type"`
	QuantityDelta decimal.Decimal  `json:"quantityDelta"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
	CorrelationID string           `json:"correlationId"`
	Reason        string           `json:"reason,omitempty"`
	CreatedAt     time.Time        `json:"createdAtUtc"`
	Reference
}

// TimelineQuery filtros de GET /api/products/:id/timeline.
type TimelineQuery struct {
	PageRequest
	From        *time.Time
	To          *time.Time
	WarehouseID string
}

// ReconcileItem celda donde existencias, ledger y capas no coinciden.
type ReconcileItem struct {
	ProductID   string          `json:"productId"`
	WarehouseID string          `json:"warehouseId"`
	LocationID  *string         `json:"locationId"`
	OnHand      decimal.Decimal `json:"quantityOnHand"`
	LedgerSum   decimal.Decimal `json:"ledgerQuantity"`
	LayerSum    decimal.Decimal `json:"layerQuantity"`
}

// ReconcileResponse resultado de la conciliación.
type ReconcileResponse struct {
	CellsChecked int             `json:"cellsChecked"`
	Mismatches   []ReconcileItem `json:"mismatches"`
}
