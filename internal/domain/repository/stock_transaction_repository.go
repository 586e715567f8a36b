package repository

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// StockTransactionRepository ledger de inventario: solo inserción, sin update ni delete.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.StockTransaction, error)
}
