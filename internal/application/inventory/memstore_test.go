package inventory_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// memStore base en memoria con semántica de transacción: el runner trabaja sobre una copia
// y solo la publica si fn no devuelve error.
type memStore struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	txs        []entity.StockTransaction
	levels     map[entity.CellKey]entity.StockLevel
	layers     map[string]entity.CostLayer
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		locations:  map[string]entity.Location{},
		levels:     map[entity.CellKey]entity.StockLevel{},
		layers:     map[string]entity.CostLayer{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	c.txs = append([]entity.StockTransaction(nil), s.txs...)
	for k, v := range s.levels {
		c.levels[k] = v
	}
	for k, v := range s.layers {
		c.layers[k] = v
	}
	return c
}

type memRunner struct{ store *memStore }

func (r *memRunner) Run(_ context.Context, fn func(inventory.TxRepos) error) error {
	work := r.store.clone()
	if err := fn(work.repos()); err != nil {
		return err // rollback: se descarta la copia
	}
	*r.store = *work
	return nil
}

func (s *memStore) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Products:     memProducts{s},
		Warehouses:   memWarehouses{s},
		Locations:    memLocations{s},
		Transactions: memTransactions{s},
		Levels:       memLevels{s},
		Layers:       memLayers{s},
	}
}

func (s *memStore) onHand(key entity.CellKey) decimal.Decimal {
	return s.levels[key].Quantity
}

func (s *memStore) layerSum(key entity.CellKey) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.layers {
		if l.CellKey == key {
			total = total.Add(l.RemainingQty)
		}
	}
	return total
}

// ── Repositorios ─────────────────────────────────────────────────────────────

type memProducts struct{ s *memStore }

func (m memProducts) Create(_ context.Context, p *entity.Product) error {
	m.s.products[p.ID] = *p
	return nil
}
func (m memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := m.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}
func (m memProducts) GetBySKU(context.Context, string) (*entity.Product, error)     { return nil, nil }
func (m memProducts) GetByBarcode(context.Context, string) (*entity.Product, error) { return nil, nil }
func (m memProducts) Update(_ context.Context, p *entity.Product) error {
	m.s.products[p.ID] = *p
	return nil
}
func (m memProducts) SetActive(_ context.Context, id string, active bool) error {
	p := m.s.products[id]
	p.IsActive = active
	m.s.products[id] = p
	return nil
}
func (m memProducts) List(context.Context, repository.ListFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}
func (m memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return m.GetByID(ctx, id)
}
func (m memProducts) UpdateAverageCost(_ context.Context, id string, cost decimal.Decimal) error {
	p := m.s.products[id]
	p.AverageCost = cost
	m.s.products[id] = p
	return nil
}

type memWarehouses struct{ s *memStore }

func (m memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	m.s.warehouses[w.ID] = *w
	return nil
}
func (m memWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if w, ok := m.s.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}
func (m memWarehouses) GetByCode(context.Context, string) (*entity.Warehouse, error) { return nil, nil }
func (m memWarehouses) Update(_ context.Context, w *entity.Warehouse) error {
	m.s.warehouses[w.ID] = *w
	return nil
}
func (m memWarehouses) SetActive(_ context.Context, id string, active bool) error {
	w := m.s.warehouses[id]
	w.IsActive = active
	m.s.warehouses[id] = w
	return nil
}
func (m memWarehouses) List(context.Context, repository.ListFilter) ([]*entity.Warehouse, int, error) {
	return nil, 0, nil
}

type memLocations struct{ s *memStore }

func (m memLocations) Create(_ context.Context, l *entity.Location) error {
	m.s.locations[l.ID] = *l
	return nil
}
func (m memLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if l, ok := m.s.locations[id]; ok {
		return &l, nil
	}
	return nil, nil
}
func (m memLocations) GetByCode(context.Context, string, string) (*entity.Location, error) {
	return nil, nil
}
func (m memLocations) Update(_ context.Context, l *entity.Location) error {
	m.s.locations[l.ID] = *l
	return nil
}
func (m memLocations) SetActive(_ context.Context, id string, active bool) error {
	l := m.s.locations[id]
	l.IsActive = active
	m.s.locations[id] = l
	return nil
}
func (m memLocations) ListByWarehouse(context.Context, string, repository.ListFilter) ([]*entity.Location, int, error) {
	return nil, 0, nil
}

type memTransactions struct{ s *memStore }

func (m memTransactions) Create(_ context.Context, t *entity.StockTransaction) error {
	m.s.txs = append(m.s.txs, *t)
	return nil
}
func (m memTransactions) ListByCorrelation(_ context.Context, correlationID string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for i := range m.s.txs {
		if m.s.txs[i].CorrelationID == correlationID {
			t := m.s.txs[i]
			out = append(out, &t)
		}
	}
	return out, nil
}

type memLevels struct{ s *memStore }

func (m memLevels) Ensure(_ context.Context, key entity.CellKey) error {
	if _, ok := m.s.levels[key]; !ok {
		m.s.levels[key] = entity.StockLevel{CellKey: key, Quantity: decimal.Zero}
	}
	return nil
}
func (m memLevels) GetForUpdate(_ context.Context, key entity.CellKey) (*entity.StockLevel, error) {
	l, ok := m.s.levels[key]
	if !ok {
		return nil, fmt.Errorf("celda inexistente %+v", key)
	}
	return &l, nil
}
func (m memLevels) Get(_ context.Context, key entity.CellKey) (*entity.StockLevel, error) {
	if l, ok := m.s.levels[key]; ok {
		return &l, nil
	}
	return nil, nil
}
func (m memLevels) SetQuantity(_ context.Context, key entity.CellKey, qty decimal.Decimal) error {
	l := m.s.levels[key]
	l.CellKey = key
	l.Quantity = qty
	m.s.levels[key] = l
	return nil
}
func (m memLevels) TotalByProduct(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, l := range m.s.levels {
		if k.ProductID == productID {
			total = total.Add(l.Quantity)
		}
	}
	return total, nil
}

type memLayers struct{ s *memStore }

func (m memLayers) Create(_ context.Context, l *entity.CostLayer) error {
	m.s.layers[l.ID] = *l
	return nil
}
func (m memLayers) ListOpenForUpdate(_ context.Context, key entity.CellKey) ([]entity.CostLayer, error) {
	var out []entity.CostLayer
	for _, l := range m.s.layers {
		if l.CellKey == key && l.RemainingQty.IsPositive() {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}
func (m memLayers) UpdateRemaining(_ context.Context, id string, remaining decimal.Decimal) error {
	l := m.s.layers[id]
	l.RemainingQty = remaining
	m.s.layers[id] = l
	return nil
}
