package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	Code      string // único, en mayúsculas
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
