package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullIfEmpty convierte "" en NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// limitArg 0 = sin límite (LIMIT NULL).
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

// cellKey arma la llave desde las columnas escaneadas; location_id NULL = sin ubicación.
func cellKey(productID, warehouseID string, locationID *string) entity.CellKey {
	return entity.NewCellKey(productID, warehouseID, locationID)
}

// scanCellSums lee filas (product_id, warehouse_id, location_id, total) a un mapa por celda.
func scanCellSums(rows pgx.Rows) (map[entity.CellKey]decimal.Decimal, error) {
	defer rows.Close()
	out := make(map[entity.CellKey]decimal.Decimal)
	for rows.Next() {
		var (
			productID, warehouseID string
			locationID             *string
			total                  decimal.Decimal
		)
		if err := rows.Scan(&productID, &warehouseID, &locationID, &total); err != nil {
			return nil, err
		}
		out[cellKey(productID, warehouseID, locationID)] = total
	}
	return out, rows.Err()
}

const layerColumns = `id, product_id, warehouse_id, location_id, source_transaction_id,
	received_at, original_qty, remaining_qty, unit_cost`

// collectLayers escanea filas con layerColumns y cierra rows.
func collectLayers(rows pgx.Rows) ([]entity.CostLayer, error) {
	defer rows.Close()
	var out []entity.CostLayer
	for rows.Next() {
		var (
			l          entity.CostLayer
			locationID *string
		)
		if err := rows.Scan(&l.ID, &l.ProductID, &l.WarehouseID, &locationID, &l.SourceTransactionID,
			&l.ReceivedAt, &l.OriginalQty, &l.RemainingQty, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan cost layer: %w", err)
		}
		l.LocationID = deref(locationID)
		out = append(out, l)
	}
	return out, rows.Err()
}
