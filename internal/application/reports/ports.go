package reports

import "time"

// Column encabezado de columna; Numeric alinea a la derecha y usa formato numérico.
type Column struct {
	Header  string
	Numeric bool
}

// Table reporte tabular listo para exportar. Cada celda es string, int,
// decimal.Decimal, *decimal.Decimal, time.Time, *time.Time o nil.
type Table struct {
	Title       string
	Filters     []string // "Bodega: CENTRAL", "Desde: 2026-01-01"...
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]any
}

// TableExporter convierte una Table a un formato binario (xlsx, pdf).
type TableExporter interface {
	Format() string
	ContentType() string
	Export(t Table) ([]byte, error)
}
