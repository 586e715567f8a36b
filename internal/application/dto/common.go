package dto

// Límites de paginación.
const (
	DefaultPageSize       = 10
	MaxPageSize           = 100
	DefaultLedgerPageSize = 50
	MaxLedgerPageSize     = 200

	// MaxPage tope de página: con el mayor pageSize el offset sigue cabiendo en un int32.
	MaxPage = 1_000_000
)

// PageRequest paginación por número de página (desde 1).
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize aplica valores por defecto y topes: 1 <= page <= MaxPage, 1 <= pageSize <= limit.
func (p PageRequest) Normalize(def, limit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PageSize <= 0 {
		p.PageSize = def
	}
	if p.PageSize > limit {
		p.PageSize = limit
	}
	return p
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PagedResult lista paginada.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// NewPagedResult arma el resultado calculando el total de páginas. Items nil se serializa como [].
func NewPagedResult[T any](items []T, page PageRequest, total int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if page.PageSize > 0 {
		pages = (total + page.PageSize - 1) / page.PageSize
	}
	return PagedResult[T]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
