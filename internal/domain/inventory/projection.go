package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
)

// ProjectLedger suma los deltas del ledger por celda.
func ProjectLedger(txs []entity.StockTransaction) map[entity.CellKey]decimal.Decimal {
	out := make(map[entity.CellKey]decimal.Decimal)
	for _, t := range txs {
		k := t.Cell()
		out[k] = out[k].Add(t.QuantityDelta)
	}
	return out
}

// CellBalance cantidades de una celda vistas desde las tres fuentes.
type CellBalance struct {
	entity.CellKey
	OnHand    decimal.Decimal // stock_levels
	LedgerSum decimal.Decimal // suma de deltas
	LayerSum  decimal.Decimal // suma de remanentes FIFO
}

// Consistent indica si las tres cantidades coinciden.
func (b CellBalance) Consistent() bool {
	return b.OnHand.Equal(b.LedgerSum) && b.OnHand.Equal(b.LayerSum)
}

// FindMismatches devuelve las celdas inconsistentes ordenadas por llave.
func FindMismatches(balances []CellBalance) []CellBalance {
	var out []CellBalance
	for _, b := range balances {
		if !b.Consistent() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CellKey.Less(out[j].CellKey) })
	return out
}

// MergeBalances combina las tres fuentes en una lista por celda; las ausentes valen cero.
func MergeBalances(onHand, ledger, layers map[entity.CellKey]decimal.Decimal) []CellBalance {
	keys := make(map[entity.CellKey]struct{})
	for k := range onHand {
		keys[k] = struct{}{}
	}
	for k := range ledger {
		keys[k] = struct{}{}
	}
	for k := range layers {
		keys[k] = struct{}{}
	}
	out := make([]CellBalance, 0, len(keys))
	for k := range keys {
		out = append(out, CellBalance{CellKey: k, OnHand: onHand[k], LedgerSum: ledger[k], LayerSum: layers[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CellKey.Less(out[j].CellKey) })
	return out
}
