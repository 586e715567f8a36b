package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellKey identifica una celda de stock: producto + bodega + ubicación opcional.
// LocationID vacío representa "sin ubicación".
type CellKey struct {
	ProductID   string
	WarehouseID string
	LocationID  string
}

// NewCellKey construye la llave a partir de una ubicación opcional.
func NewCellKey(productID, warehouseID string, locationID *string) CellKey {
	k := CellKey{ProductID: productID, WarehouseID: warehouseID}
	if locationID != nil {
		k.LocationID = *locationID
	}
	return k
}

// Location devuelve la ubicación como puntero (nil = sin ubicación).
func (k CellKey) Location() *string {
	if k.LocationID == "" {
		return nil
	}
	loc := k.LocationID
	return &loc
}

// Less orden total estable entre celdas; se usa para bloquear en orden y evitar deadlocks.
func (k CellKey) Less(o CellKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.LocationID < o.LocationID
}

// StockLevel existencia materializada de una celda (tabla stock_levels).
type StockLevel struct {
	CellKey
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
