package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo ledger de inventario. Solo INSERT: la tabla rechaza UPDATE y DELETE por trigger.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una fila del ledger.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (
			id, product_id, warehouse_id, location_id, type, quantity_delta, unit_cost,
			reference_type, reference_id, correlation_id, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.WarehouseID, t.LocationID, t.Type, t.QuantityDelta, t.UnitCost,
		nullIfEmpty(t.ReferenceType), nullIfEmpty(t.ReferenceID), t.CorrelationID, nullIfEmpty(t.Reason),
		t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// ListByCorrelation filas que comparten correlation_id (las dos patas de un traslado).
func (r *StockTransactionRepo) ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, product_id, warehouse_id, location_id, type, quantity_delta, unit_cost,
		       COALESCE(reference_type, ''), COALESCE(reference_id, ''), correlation_id,
		       COALESCE(reason, ''), created_by, created_at
		FROM stock_transactions
		WHERE correlation_id = $1
		ORDER BY quantity_delta`
	rows, err := r.q.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions by correlation: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.WarehouseID, &t.LocationID, &t.Type, &t.QuantityDelta, &t.UnitCost,
			&t.ReferenceType, &t.ReferenceID, &t.CorrelationID, &t.Reason, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
