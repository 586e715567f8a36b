package entity

import "time"

// Location ubicación física dentro de una bodega (pasillo, estante...).
// Code es único dentro de la bodega.
type Location struct {
	ID          string
	WarehouseID string
	Code        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
