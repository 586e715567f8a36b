package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// LayerConsumption cantidad tomada de una capa FIFO.
type LayerConsumption struct {
	Layer    entity.CostLayer // estado de la capa antes de consumir
	Quantity decimal.Decimal
}

// Remaining cantidad que queda en la capa después del consumo.
func (c LayerConsumption) Remaining() decimal.Decimal {
	return c.Layer.RemainingQty.Sub(c.Quantity)
}

// FIFOResult resultado de consumir capas para una salida.
type FIFOResult struct {
	Consumptions []LayerConsumption
	TotalCost    decimal.Decimal
}

// UnitCost costo unitario promedio de lo consumido (TotalCost / cantidad).
func (r FIFOResult) UnitCost() decimal.Decimal {
	qty := decimal.Zero
	for _, c := range r.Consumptions {
		qty = qty.Add(c.Quantity)
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return r.TotalCost.DivRound(qty, CostScale)
}

// SortLayers ordena las capas de la más antigua a la más nueva (ReceivedAt, luego ID).
func SortLayers(layers []entity.CostLayer) {
	sort.SliceStable(layers, func(i, j int) bool {
		if !layers[i].ReceivedAt.Equal(layers[j].ReceivedAt) {
			return layers[i].ReceivedAt.Before(layers[j].ReceivedAt)
		}
		return layers[i].ID < layers[j].ID
	})
}

// ConsumeFIFO toma qty de las capas, de la más antigua a la más nueva.
// Las capas sin remanente se ignoran. Si la suma de remanentes no alcanza devuelve ErrInsufficientStock
// y no consume nada. No modifica el slice recibido.
func ConsumeFIFO(layers []entity.CostLayer, qty decimal.Decimal) (FIFOResult, error) {
	if !qty.IsPositive() {
		return FIFOResult{}, fmt.Errorf("%w: la cantidad a consumir debe ser positiva", domain.ErrInvalidInput)
	}
	ordered := make([]entity.CostLayer, len(layers))
	copy(ordered, layers)
	SortLayers(ordered)

	available := decimal.Zero
	for _, l := range ordered {
		if l.RemainingQty.IsPositive() {
			available = available.Add(l.RemainingQty)
		}
	}
	if available.LessThan(qty) {
		return FIFOResult{}, fmt.Errorf("%w: disponible en capas %s, solicitado %s", domain.ErrInsufficientStock, available, qty)
	}

	res := FIFOResult{TotalCost: decimal.Zero}
	pending := qty
	for _, l := range ordered {
		if !pending.IsPositive() {
			break
		}
		if !l.RemainingQty.IsPositive() {
			continue
		}
		take := decimal.Min(l.RemainingQty, pending)
		res.Consumptions = append(res.Consumptions, LayerConsumption{Layer: l, Quantity: take})
		res.TotalCost = res.TotalCost.Add(take.Mul(l.UnitCost))
		pending = pending.Sub(take)
	}
	return res, nil
}
