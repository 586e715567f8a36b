package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger.
const (
	TransactionReceive  = "RECEIVE"
	TransactionIssue    = "ISSUE"
	TransactionTransfer = "TRANSFER"
	TransactionAdjust   = "ADJUST"
)

// StockTransaction fila inmutable del ledger de inventario.
// QuantityDelta es con signo: positivo entra a la celda, negativo sale.
// Las dos patas de un traslado comparten CorrelationID; en el resto CorrelationID = ID.
type StockTransaction struct {
	ID            string
	ProductID     string
	WarehouseID   string
	LocationID    *string
	Type          string
	QuantityDelta decimal.Decimal
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	CorrelationID string
	Reason        string
	CreatedBy     string
	CreatedAt     time.Time
}

// Cell devuelve la celda (producto, bodega, ubicación) afectada por la transacción.
func (t *StockTransaction) Cell() CellKey {
	return NewCellKey(t.ProductID, t.WarehouseID, t.LocationID)
}

// IsValidTransactionType indica si el tipo es uno de los soportados por el ledger.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionReceive, TransactionIssue, TransactionTransfer, TransactionAdjust:
		return true
	}
	return false
}
