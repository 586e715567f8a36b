package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// StockLevelRepository existencias materializadas por celda.
// Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// Ensure crea la celda en cero si no existe (INSERT ... ON CONFLICT DO NOTHING).
	Ensure(ctx context.Context, key entity.CellKey) error
	// GetForUpdate bloquea la fila de la celda (SELECT FOR UPDATE). La celda debe existir.
	GetForUpdate(ctx context.Context, key entity.CellKey) (*entity.StockLevel, error)
	Get(ctx context.Context, key entity.CellKey) (*entity.StockLevel, error)
	SetQuantity(ctx context.Context, key entity.CellKey, qty decimal.Decimal) error
	// TotalByProduct suma las existencias del producto en todas las celdas.
	TotalByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
}
