package usecase

import (
	"context"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

const (
	defaultProductTake  = 20
	defaultLocationTake = 50
	maxLookupTake       = 100
)

// LookupUseCase listas cortas para selectores del frontend. Por defecto solo activos.
type LookupUseCase struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	locations  repository.LocationRepository
}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase(
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	locations repository.LocationRepository,
) *LookupUseCase {
	return &LookupUseCase{products: products, warehouses: warehouses, locations: locations}
}

// Products opciones de producto (búsqueda por nombre, SKU o código de barras).
func (uc *LookupUseCase) Products(ctx context.Context, q dto.LookupQuery) ([]dto.ProductLookup, error) {
	list, _, err := uc.products.List(ctx, lookupFilter(q, defaultProductTake))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductLookup, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductLookup{ID: p.ID, Name: p.Name, SKU: p.SKU, Barcode: p.Barcode})
	}
	return out, nil
}

// Warehouses opciones de bodega (sin tope: son pocas).
func (uc *LookupUseCase) Warehouses(ctx context.Context, q dto.LookupQuery) ([]dto.WarehouseLookup, error) {
	f := lookupFilter(q, 0)
	f.Limit = 0
	list, _, err := uc.warehouses.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseLookup, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WarehouseLookup{ID: w.ID, Name: w.Name, Code: w.Code})
	}
	return out, nil
}

// Locations opciones de ubicación de una bodega.
func (uc *LookupUseCase) Locations(ctx context.Context, warehouseID string, q dto.LookupQuery) ([]dto.LocationLookup, error) {
	list, _, err := uc.locations.ListByWarehouse(ctx, warehouseID, lookupFilter(q, defaultLocationTake))
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationLookup, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LocationLookup{ID: l.ID, WarehouseID: l.WarehouseID, Code: l.Code})
	}
	return out, nil
}

func lookupFilter(q dto.LookupQuery, defaultTake int) repository.ListFilter {
	take := q.Take
	if take <= 0 {
		take = defaultTake
	}
	if take > maxLookupTake {
		take = maxLookupTake
	}
	var active *bool
	if q.ActiveOnly == nil || *q.ActiveOnly {
		active = boolPtr(true)
	}
	return listFilter(q.Search, active, take, 0)
}
