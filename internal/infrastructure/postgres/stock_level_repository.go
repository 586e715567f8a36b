package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo existencias materializadas por celda (tabla stock_levels).
// La celda se compara con IS NOT DISTINCT FROM para que location_id NULL cuente como valor.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const cellWhere = `product_id = $1 AND warehouse_id = $2 AND location_id IS NOT DISTINCT FROM $3`

// Ensure crea la celda en cero si no existe.
func (r *StockLevelRepo) Ensure(ctx context.Context, key entity.CellKey) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT ON CONSTRAINT stock_levels_cell_uq DO NOTHING`,
		key.ProductID, key.WarehouseID, key.Location())
	if err != nil {
		return fmt.Errorf("ensure stock level: %w", err)
	}
	return nil
}

// GetForUpdate obtiene la celda y bloquea la fila (SELECT FOR UPDATE).
// Si la celda no existe devuelve cantidad cero.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, key entity.CellKey) (*entity.StockLevel, error) {
	return r.get(ctx, key, `SELECT quantity, updated_at FROM stock_levels WHERE `+cellWhere+` FOR UPDATE`)
}

// Get obtiene la celda sin bloquear. Si no existe devuelve cantidad cero.
func (r *StockLevelRepo) Get(ctx context.Context, key entity.CellKey) (*entity.StockLevel, error) {
	return r.get(ctx, key, `SELECT quantity, updated_at FROM stock_levels WHERE `+cellWhere)
}

func (r *StockLevelRepo) get(ctx context.Context, key entity.CellKey, query string) (*entity.StockLevel, error) {
	level := entity.StockLevel{CellKey: key}
	err := r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, key.Location()).Scan(&level.Quantity, &level.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			level.Quantity = decimal.Zero
			return &level, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &level, nil
}

// SetQuantity fija la existencia de la celda (que ya debe existir).
func (r *StockLevelRepo) SetQuantity(ctx context.Context, key entity.CellKey, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_levels SET quantity = $4, updated_at = now() WHERE `+cellWhere,
		key.ProductID, key.WarehouseID, key.Location(), qty)
	if err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set stock level: celda inexistente %s/%s/%s", key.ProductID, key.WarehouseID, key.LocationID)
	}
	return nil
}

// TotalByProduct suma las existencias del producto en todas las celdas.
func (r *StockLevelRepo) TotalByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock by product: %w", err)
	}
	return total, nil
}
