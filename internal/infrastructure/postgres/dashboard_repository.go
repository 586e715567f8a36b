package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo conteos de solo lectura para el dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountProducts(ctx context.Context) (total, active int, err error) {
	err = r.q.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM products`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("dashboard.CountProducts: %w", err)
	}
	return total, active, nil
}

func (r *DashboardRepo) CountWarehouses(ctx context.Context) (total, active int, err error) {
	err = r.q.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM warehouses`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("dashboard.CountWarehouses: %w", err)
	}
	return total, active, nil
}

func (r *DashboardRepo) CountLowStockCells(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM stock_levels s
		JOIN products p ON p.id = s.product_id
		WHERE p.is_active AND s.quantity < p.min_stock_level`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard.CountLowStockCells: %w", err)
	}
	return n, nil
}

// CountDeadStock mismo criterio que el reporte de stock sin movimiento, en todas las bodegas.
func (r *DashboardRepo) CountDeadStock(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM (`+deadStockQuery+`) d`, since, nil).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.CountDeadStock: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(remaining_qty * unit_cost), 0) FROM cost_layers WHERE remaining_qty > 0`).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dashboard.TotalStockValue: %w", err)
	}
	return v, nil
}
