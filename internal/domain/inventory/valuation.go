package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// Modos de valorización.
const (
	ValuationFIFO            = "Fifo"
	ValuationWeightedAverage = "WeightedAverage"
)

// IsValidValuationMode indica si el modo es soportado.
func IsValidValuationMode(m string) bool {
	return m == ValuationFIFO || m == ValuationWeightedAverage
}

// FIFOValue valor de una celda según sus capas: suma de remanente * costo.
func FIFOValue(layers []entity.CostLayer) decimal.Decimal {
	total := decimal.Zero
	for _, l := range layers {
		if l.RemainingQty.IsPositive() {
			total = total.Add(l.RemainingQty.Mul(l.UnitCost))
		}
	}
	return total
}

// WeightedAverageValue valor de una celda a costo promedio: cantidad * costo promedio del producto.
func WeightedAverageValue(onHand, averageCost decimal.Decimal) decimal.Decimal {
	return onHand.Mul(averageCost)
}

// UnitCostOf costo unitario implícito (valor / cantidad); cero si no hay existencias.
func UnitCostOf(value, qty decimal.Decimal) decimal.Decimal {
	if !qty.IsPositive() {
		return decimal.Zero
	}
	return value.DivRound(qty, CostScale)
}
