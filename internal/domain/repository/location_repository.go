package repository

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, warehouseID, code string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	SetActive(ctx context.Context, id string, active bool) error
	ListByWarehouse(ctx context.Context, warehouseID string, f ListFilter) ([]*entity.Location, int, error)
}
