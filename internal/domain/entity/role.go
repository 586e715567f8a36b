package entity

import "time"

// Role rol asignable a usuarios.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
