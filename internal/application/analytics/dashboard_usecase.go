// Package analytics contiene el resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

const dashboardDeadStockDays = 30 // ventana del widget de stock sin movimiento

// DashboardUseCase genera el resumen de catálogo, alertas y valor de inventario.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// GetSummary construye el DashboardSummary.
//
// Cinco consultas en paralelo:
//  1. CountProducts      → TotalProducts + ActiveProducts
//  2. CountWarehouses    → TotalWarehouses + ActiveWarehouses
//  3. CountLowStockCells → LowStockItems
//  4. CountDeadStock     → DeadStockItems (30 días)
//  5. TotalStockValue    → TotalStockValue (FIFO)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummary, error) {
	since := uc.now().AddDate(0, 0, -dashboardDeadStockDays)

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type pairResult struct {
		total, active int
		err           error
	}
	type countResult struct {
		n   int
		err error
	}
	type valueResult struct {
		v   decimal.Decimal
		err error
	}

	productsCh := make(chan pairResult, 1)
	warehousesCh := make(chan pairResult, 1)
	lowCh := make(chan countResult, 1)
	deadCh := make(chan countResult, 1)
	valueCh := make(chan valueResult, 1)

	go func() {
		total, active, err := uc.repo.CountProducts(ctx)
		productsCh <- pairResult{total, active, err}
	}()
	go func() {
		total, active, err := uc.repo.CountWarehouses(ctx)
		warehousesCh <- pairResult{total, active, err}
	}()
	go func() {
		n, err := uc.repo.CountLowStockCells(ctx)
		lowCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountDeadStock(ctx, since)
		deadCh <- countResult{n, err}
	}()
	go func() {
		v, err := uc.repo.TotalStockValue(ctx)
		valueCh <- valueResult{v, err}
	}()

	products := <-productsCh
	warehouses := <-warehousesCh
	low := <-lowCh
	dead := <-deadCh
	value := <-valueCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if warehouses.err != nil {
		return nil, fmt.Errorf("dashboard: bodegas: %w", warehouses.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: bajo stock: %w", low.err)
	}
	if dead.err != nil {
		return nil, fmt.Errorf("dashboard: stock sin movimiento: %w", dead.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor de inventario: %w", value.err)
	}

	return &dto.DashboardSummary{
		TotalProducts:    products.total,
		ActiveProducts:   products.active,
		TotalWarehouses:  warehouses.total,
		ActiveWarehouses: warehouses.active,
		LowStockItems:    low.n,
		DeadStockItems:   dead.n,
		TotalStockValue:  value.v.Round(2),
	}, nil
}
