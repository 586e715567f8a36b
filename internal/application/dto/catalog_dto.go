package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Productos ────────────────────────────────────────────────────────────────

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni existencias).
type UpdateProductRequest = CreateProductRequest

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAtUtc"`
	UpdatedAt     time.Time       `json:"updatedAtUtc"`
}

// ListQuery filtros de los listados del catálogo.
type ListQuery struct {
	PageRequest
	Search   string
	IsActive *bool
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

// WarehouseRequest entrada para crear o actualizar una bodega.
type WarehouseRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAtUtc"`
	UpdatedAt time.Time `json:"updatedAtUtc"`
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

// LocationRequest entrada para crear o actualizar una ubicación.
type LocationRequest struct {
	Code string `json:"code"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouseId"`
	Code        string    `json:"code"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAtUtc"`
	UpdatedAt   time.Time `json:"updatedAtUtc"`
}

// ── Lookups ──────────────────────────────────────────────────────────────────

// LookupQuery filtros para selectores. ActiveOnly por defecto true.
type LookupQuery struct {
	Search     string
	ActiveOnly *bool
	Take       int
}

// ProductLookup opción de producto para selectores.
type ProductLookup struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SKU     string `json:"sku"`
	Barcode string `json:"barcode,omitempty"`
}

// WarehouseLookup opción de bodega para selectores.
type WarehouseLookup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// LocationLookup opción de ubicación para selectores.
type LocationLookup struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouseId"`
	Code        string `json:"code"`
}
