package repository

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f ListFilter) ([]*entity.Warehouse, int, error)
}
