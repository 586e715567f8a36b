package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f ListFilter) ([]*entity.Product, int, error)

	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) antes de recalcular el costo.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateAverageCost(ctx context.Context, id string, cost decimal.Decimal) error
}
