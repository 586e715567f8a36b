package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.CostLayerRepository = (*CostLayerRepo)(nil)

// CostLayerRepo capas FIFO por celda.
type CostLayerRepo struct {
	q Querier
}

// NewCostLayerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCostLayerRepository(q Querier) *CostLayerRepo {
	return &CostLayerRepo{q: q}
}

// Create inserta una capa.
func (r *CostLayerRepo) Create(ctx context.Context, l *entity.CostLayer) error {
	query := `
		INSERT INTO cost_layers (id, product_id, warehouse_id, location_id, source_transaction_id,
		                         received_at, original_qty, remaining_qty, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ProductID, l.WarehouseID, l.Location(), l.SourceTransactionID,
		l.ReceivedAt, l.OriginalQty, l.RemainingQty, l.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert cost layer: %w", err)
	}
	return nil
}

// ListOpenForUpdate capas con remanente de la celda, de la más antigua a la más nueva, bloqueadas.
func (r *CostLayerRepo) ListOpenForUpdate(ctx context.Context, key entity.CellKey) ([]entity.CostLayer, error) {
	query := `
		SELECT ` + layerColumns + `
		FROM cost_layers
		WHERE product_id = $1 AND warehouse_id = $2 AND location_id IS NOT DISTINCT FROM $3
		  AND remaining_qty > 0
		ORDER BY received_at, id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, key.ProductID, key.WarehouseID, key.Location())
	if err != nil {
		return nil, fmt.Errorf("list open cost layers: %w", err)
	}
	return collectLayers(rows)
}

// UpdateRemaining actualiza el remanente de una capa.
func (r *CostLayerRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE cost_layers SET remaining_qty = $2 WHERE id = $1`, id, remaining)
	if err != nil {
		return fmt.Errorf("update cost layer: %w", err)
	}
	return nil
}
