package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// ── Resultados crudos (read models) ─────────────────────────────────────────
// Los produce la DB; los casos de uso los convierten en DTO.

// StockOverviewRow celda con nombres y códigos de producto, bodega y ubicación.
type StockOverviewRow struct {
	entity.CellKey
	ProductName   string
	SKU           string
	WarehouseCode string
	WarehouseName string
	LocationCode  string
	OnHand        decimal.Decimal
	MinStockLevel decimal.Decimal
	UpdatedAt     time.Time
}

// MovementRow fila del ledger unida con códigos de producto, bodega y ubicación.
type MovementRow struct {
	TransactionID string
	entity.CellKey
	ProductName   string
	SKU           string
	WarehouseCode string
	LocationCode  string
	Type          string
	QuantityDelta decimal.Decimal
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	CorrelationID string
	Reason        string
	CreatedAt     time.Time
}

// DeadStockRow par (producto, bodega) con existencias y sin movimientos recientes.
type DeadStockRow struct {
	ProductID      string
	ProductName    string
	SKU            string
	WarehouseID    string
	WarehouseCode  string
	OnHand         decimal.Decimal
	LastMovementAt *time.Time
}

// ValuationCell celda con existencias y costo promedio del producto.
type ValuationCell struct {
	StockOverviewRow
	AverageCost decimal.Decimal
}

// ── Filtros ──────────────────────────────────────────────────────────────────

// StockFilter filtro por bodega y/o producto (vacío = todos).
type StockFilter struct {
	WarehouseID string
	ProductID   string
}

// MovementFilter filtro del listado de movimientos. From/To nil = sin límite.
type MovementFilter struct {
	StockFilter
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ReportRepository consultas read-only de existencias, movimientos y valorización.
type ReportRepository interface {
	// StockOverview celdas con existencias (o todas las registradas) según el filtro.
	StockOverview(ctx context.Context, f StockFilter) ([]StockOverviewRow, error)

	// Movements filas del ledger ordenadas por fecha descendente, con el total para paginar.
	Movements(ctx context.Context, f MovementFilter) ([]MovementRow, int, error)

	// LowStock celdas de productos activos con existencia menor al mínimo del producto.
	LowStock(ctx context.Context, f StockFilter) ([]StockOverviewRow, error)

	// DeadStock pares (producto, bodega) con existencias > 0 sin movimientos desde `since`.
	DeadStock(ctx context.Context, since time.Time, warehouseID string) ([]DeadStockRow, error)

	// ValuationCells celdas con existencias > 0 y el costo promedio del producto.
	ValuationCells(ctx context.Context, f StockFilter) ([]ValuationCell, error)

	// OpenLayers capas FIFO con remanente > 0.
	OpenLayers(ctx context.Context, f StockFilter) ([]entity.CostLayer, error)

	// ── Conciliación ─────────────────────────────────────────────────────────

	OnHandByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error)
	LedgerSumByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error)
	LayerSumByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error)
}

// DashboardRepository conteos para el dashboard. Implementaciones read-only.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (total, active int, err error)
	CountWarehouses(ctx context.Context) (total, active int, err error)
	CountLowStockCells(ctx context.Context) (int, error)
	CountDeadStock(ctx context.Context, since time.Time) (int, error)
	// TotalStockValue valor FIFO: suma de remanente * costo de todas las capas.
	TotalStockValue(ctx context.Context) (decimal.Decimal, error)
}
