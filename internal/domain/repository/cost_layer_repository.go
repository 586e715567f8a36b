package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// CostLayerRepository capas de costo FIFO.
type CostLayerRepository interface {
	Create(ctx context.Context, layer *entity.CostLayer) error
	// ListOpenForUpdate capas con remanente > 0 de la celda, de la más antigua a la más nueva, bloqueadas.
	ListOpenForUpdate(ctx context.Context, key entity.CellKey) ([]entity.CostLayer, error)
	UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error
}
