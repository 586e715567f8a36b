package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura sobre existencias, ledger y capas de costo.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Celda con nombres y códigos. $1 = bodega, $2 = producto (NULL = todos).
const stockOverviewSelect = `
	SELECT s.product_id, s.warehouse_id, s.location_id,
	       p.name, p.sku, w.code, w.name, COALESCE(l.code, ''),
	       s.quantity, p.min_stock_level, s.updated_at
	FROM stock_levels s
	JOIN products   p ON p.id = s.product_id
	JOIN warehouses w ON w.id = s.warehouse_id
	LEFT JOIN locations l ON l.id = s.location_id
	WHERE ($1::uuid IS NULL OR s.warehouse_id = $1)
	  AND ($2::uuid IS NULL OR s.product_id = $2)`

const stockOverviewOrder = ` ORDER BY p.sku, w.code, l.code NULLS FIRST`

func scanOverviewRow(rows pgx.Rows, extra ...any) (repository.StockOverviewRow, error) {
	var (
		row        repository.StockOverviewRow
		locationID *string
	)
	dest := []any{&row.ProductID, &row.WarehouseID, &locationID,
		&row.ProductName, &row.SKU, &row.WarehouseCode, &row.WarehouseName, &row.LocationCode,
		&row.OnHand, &row.MinStockLevel, &row.UpdatedAt}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return row, err
	}
	row.LocationID = deref(locationID)
	return row, nil
}

func (r *ReportRepo) overview(ctx context.Context, op, query string, f repository.StockFilter) ([]repository.StockOverviewRow, error) {
	rows, err := r.q.Query(ctx, query, nullIfEmpty(f.WarehouseID), nullIfEmpty(f.ProductID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []repository.StockOverviewRow
	for rows.Next() {
		row, err := scanOverviewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// StockOverview todas las celdas registradas que cumplen el filtro.
func (r *ReportRepo) StockOverview(ctx context.Context, f repository.StockFilter) ([]repository.StockOverviewRow, error) {
	return r.overview(ctx, "stock overview", stockOverviewSelect+stockOverviewOrder, f)
}

// LowStock celdas de productos activos por debajo del mínimo.
func (r *ReportRepo) LowStock(ctx context.Context, f repository.StockFilter) ([]repository.StockOverviewRow, error) {
	query := stockOverviewSelect + ` AND p.is_active AND s.quantity < p.min_stock_level` + stockOverviewOrder
	return r.overview(ctx, "low stock", query, f)
}

// ValuationCells celdas con existencias y el costo promedio del producto.
func (r *ReportRepo) ValuationCells(ctx context.Context, f repository.StockFilter) ([]repository.ValuationCell, error) {
	query := `
	SELECT s.product_id, s.warehouse_id, s.location_id,
	       p.name, p.sku, w.code, w.name, COALESCE(l.code, ''),
	       s.quantity, p.min_stock_level, s.updated_at, p.average_cost
	FROM stock_levels s
	JOIN products   p ON p.id = s.product_id
	JOIN warehouses w ON w.id = s.warehouse_id
	LEFT JOIN locations l ON l.id = s.location_id
	WHERE ($1::uuid IS NULL OR s.warehouse_id = $1)
	  AND ($2::uuid IS NULL OR s.product_id = $2)
	  AND s.quantity > 0` + stockOverviewOrder
	rows, err := r.q.Query(ctx, query, nullIfEmpty(f.WarehouseID), nullIfEmpty(f.ProductID))
	if err != nil {
		return nil, fmt.Errorf("valuation cells: %w", err)
	}
	defer rows.Close()
	var out []repository.ValuationCell
	for rows.Next() {
		var avg decimal.Decimal
		row, err := scanOverviewRow(rows, &avg)
		if err != nil {
			return nil, fmt.Errorf("valuation cells: %w", err)
		}
		out = append(out, repository.ValuationCell{StockOverviewRow: row, AverageCost: avg})
	}
	return out, rows.Err()
}

// Movements filas del ledger, más recientes primero, con el total para paginar.
func (r *ReportRepo) Movements(ctx context.Context, f repository.MovementFilter) ([]repository.MovementRow, int, error) {
	query := `
	SELECT t.id, t.product_id, t.warehouse_id, t.location_id,
	       p.name, p.sku, w.code, COALESCE(l.code, ''),
	       t.type, t.quantity_delta, t.unit_cost,
	       COALESCE(t.reference_type, ''), COALESCE(t.reference_id, ''), t.correlation_id,
	       COALESCE(t.reason, ''), t.created_at,
	       COUNT(*) OVER()
	FROM stock_transactions t
	JOIN products   p ON p.id = t.product_id
	JOIN warehouses w ON w.id = t.warehouse_id
	LEFT JOIN locations l ON l.id = t.location_id` + movementsWhere + `
	ORDER BY t.created_at DESC, t.id
	LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query,
		nullIfEmpty(f.WarehouseID), nullIfEmpty(f.ProductID), f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("movements: %w", err)
	}
	defer rows.Close()
	var (
		out   []repository.MovementRow
		total int
	)
	for rows.Next() {
		var (
			m          repository.MovementRow
			locationID *string
		)
		if err := rows.Scan(&m.TransactionID, &m.ProductID, &m.WarehouseID, &locationID,
			&m.ProductName, &m.SKU, &m.WarehouseCode, &m.LocationCode,
			&m.Type, &m.QuantityDelta, &m.UnitCost,
			&m.ReferenceType, &m.ReferenceID, &m.CorrelationID,
			&m.Reason, &m.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		m.LocationID = deref(locationID)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("movements: %w", err)
	}
	if err := totalPastEnd(ctx, r.q, len(out), f.Offset, &total,
		`SELECT COUNT(*) FROM stock_transactions t`+movementsWhere,
		nullIfEmpty(f.WarehouseID), nullIfEmpty(f.ProductID), f.From, f.To); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	return out, total, nil
}

const movementsWhere = `
	WHERE ($1::uuid IS NULL OR t.warehouse_id = $1)
	  AND ($2::uuid IS NULL OR t.product_id = $2)
	  AND ($3::timestamptz IS NULL OR t.created_at >= $3)
	  AND ($4::timestamptz IS NULL OR t.created_at <= $4)`

// Pares (producto, bodega) con existencias y sin movimientos desde $1. $2 = bodega (NULL = todas).
const deadStockQuery = `
	WITH stock AS (
		SELECT product_id, warehouse_id, SUM(quantity) AS on_hand
		FROM stock_levels
		WHERE ($2::uuid IS NULL OR warehouse_id = $2)
		GROUP BY product_id, warehouse_id
		HAVING SUM(quantity) > 0
	), last_move AS (
		SELECT product_id, warehouse_id, MAX(created_at) AS last_at
		FROM stock_transactions
		GROUP BY product_id, warehouse_id
	)
	SELECT s.product_id, p.name, p.sku, s.warehouse_id, w.code, s.on_hand, lm.last_at
	FROM stock s
	JOIN products   p ON p.id = s.product_id
	JOIN warehouses w ON w.id = s.warehouse_id
	LEFT JOIN last_move lm ON lm.product_id = s.product_id AND lm.warehouse_id = s.warehouse_id
	WHERE lm.last_at IS NULL OR lm.last_at < $1`

// DeadStock existencias sin movimientos desde since, las más antiguas primero.
func (r *ReportRepo) DeadStock(ctx context.Context, since time.Time, warehouseID string) ([]repository.DeadStockRow, error) {
	rows, err := r.q.Query(ctx, deadStockQuery+` ORDER BY lm.last_at NULLS FIRST, p.sku, w.code`, since, nullIfEmpty(warehouseID))
	if err != nil {
		return nil, fmt.Errorf("dead stock: %w", err)
	}
	defer rows.Close()
	var out []repository.DeadStockRow
	for rows.Next() {
		var d repository.DeadStockRow
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.SKU, &d.WarehouseID, &d.WarehouseCode, &d.OnHand, &d.LastMovementAt); err != nil {
			return nil, fmt.Errorf("scan dead stock: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OpenLayers capas con remanente según el filtro.
func (r *ReportRepo) OpenLayers(ctx context.Context, f repository.StockFilter) ([]entity.CostLayer, error) {
	query := `
	SELECT ` + layerColumns + `
	FROM cost_layers
	WHERE remaining_qty > 0
	  AND ($1::uuid IS NULL OR warehouse_id = $1)
	  AND ($2::uuid IS NULL OR product_id = $2)
	ORDER BY received_at, id`
	rows, err := r.q.Query(ctx, query, nullIfEmpty(f.WarehouseID), nullIfEmpty(f.ProductID))
	if err != nil {
		return nil, fmt.Errorf("open layers: %w", err)
	}
	return collectLayers(rows)
}

// ── Conciliación ────────────────────────────────────────────────────────────

// OnHandByCell existencia materializada de cada celda.
func (r *ReportRepo) OnHandByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return r.cellSums(ctx, "on hand by cell",
		`SELECT product_id, warehouse_id, location_id, quantity FROM stock_levels`)
}

// LedgerSumByCell suma de deltas del ledger por celda.
func (r *ReportRepo) LedgerSumByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return r.cellSums(ctx, "ledger sum by cell", `
		SELECT product_id, warehouse_id, location_id, SUM(quantity_delta)
		FROM stock_transactions
		GROUP BY product_id, warehouse_id, location_id`)
}

// LayerSumByCell suma de remanentes de capas por celda.
func (r *ReportRepo) LayerSumByCell(ctx context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return r.cellSums(ctx, "layer sum by cell", `
		SELECT product_id, warehouse_id, location_id, SUM(remaining_qty)
		FROM cost_layers
		GROUP BY product_id, warehouse_id, location_id`)
}

func (r *ReportRepo) cellSums(ctx context.Context, op, query string) (map[entity.CellKey]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := scanCellSums(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
