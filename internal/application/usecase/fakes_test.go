package usecase_test

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// ── Repositorios en memoria ─────────────────────────────────────────────────

type memProducts struct{ items map[string]*entity.Product }

func newMemProducts() *memProducts { return &memProducts{items: map[string]*entity.Product{}} }

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (m *memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memProducts) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.Barcode != "" && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}
func (m *memProducts) SetActive(_ context.Context, id string, active bool) error {
	m.items[id].IsActive = active
	return nil
}
func (m *memProducts) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+p.SKU+p.Barcode), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f), len(out), nil
}
func (m *memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return m.GetByID(ctx, id)
}
func (m *memProducts) UpdateAverageCost(_ context.Context, id string, cost decimal.Decimal) error {
	m.items[id].AverageCost = cost
	return nil
}

type memWarehouses struct{ items map[string]*entity.Warehouse }

func newMemWarehouses() *memWarehouses { return &memWarehouses{items: map[string]*entity.Warehouse{}} }

func (m *memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	cp := *w
	m.items[w.ID] = &cp
	return nil
}
func (m *memWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if w, ok := m.items[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}
func (m *memWarehouses) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	for _, w := range m.items {
		if w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memWarehouses) Update(_ context.Context, w *entity.Warehouse) error {
	cp := *w
	m.items[w.ID] = &cp
	return nil
}
func (m *memWarehouses) SetActive(_ context.Context, id string, active bool) error {
	m.items[id].IsActive = active
	return nil
}
func (m *memWarehouses) List(_ context.Context, f repository.ListFilter) ([]*entity.Warehouse, int, error) {
	var out []*entity.Warehouse
	for _, w := range m.items {
		if f.IsActive != nil && w.IsActive != *f.IsActive {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, f), len(out), nil
}

type memLocations struct{ items map[string]*entity.Location }

func newMemLocations() *memLocations { return &memLocations{items: map[string]*entity.Location{}} }

func (m *memLocations) Create(_ context.Context, l *entity.Location) error {
	cp := *l
	m.items[l.ID] = &cp
	return nil
}
func (m *memLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if l, ok := m.items[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}
func (m *memLocations) GetByCode(_ context.Context, warehouseID, code string) (*entity.Location, error) {
	for _, l := range m.items {
		if l.WarehouseID == warehouseID && l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memLocations) Update(_ context.Context, l *entity.Location) error {
	cp := *l
	m.items[l.ID] = &cp
	return nil
}
func (m *memLocations) SetActive(_ context.Context, id string, active bool) error {
	m.items[id].IsActive = active
	return nil
}
func (m *memLocations) ListByWarehouse(_ context.Context, warehouseID string, f repository.ListFilter) ([]*entity.Location, int, error) {
	var out []*entity.Location
	for _, l := range m.items {
		if l.WarehouseID != warehouseID || (f.IsActive != nil && l.IsActive != *f.IsActive) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, f), len(out), nil
}

func paginate[T any](items []T, f repository.ListFilter) []T {
	if f.Offset >= len(items) {
		return nil
	}
	items = items[f.Offset:]
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}
