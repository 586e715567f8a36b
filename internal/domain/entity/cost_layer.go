package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostLayer capa de costo FIFO de una celda. Cada entrada crea una capa;
// las salidas consumen RemainingQty de la más antigua a la más nueva.
type CostLayer struct {
	ID                  string
	CellKey
	SourceTransactionID string
	ReceivedAt          time.Time
	OriginalQty         decimal.Decimal
	RemainingQty        decimal.Decimal
	UnitCost            decimal.Decimal
}
