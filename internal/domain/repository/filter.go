package repository

// ListFilter filtros comunes de los listados del catálogo.
// IsActive nil = todos. Limit <= 0 = sin límite.
type ListFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}
