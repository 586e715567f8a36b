package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// AverageCost es el costo promedio ponderado móvil; solo lo actualiza el ledger.
type Product struct {
	ID            string
	Name          string
	SKU           string // único, en mayúsculas
	Barcode       string // opcional; único cuando existe
	MinStockLevel decimal.Decimal
	AverageCost   decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
