package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/inventory"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// StockQueryUseCase consultas de existencias: resumen por celda, timeline de producto y conciliación.
type StockQueryUseCase struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	snapshot SnapshotRunner
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(reports repository.ReportRepository, products repository.ProductRepository) *StockQueryUseCase {
	return &StockQueryUseCase{reports: reports, products: products}
}

// WithSnapshot hace que Reconcile lea existencias, ledger y capas en una sola instantánea.
// Sin snapshot las tres lecturas son independientes y un movimiento concurrente puede
// aparecer como descuadre.
func (uc *StockQueryUseCase) WithSnapshot(s SnapshotRunner) *StockQueryUseCase {
	uc.snapshot = s
	return uc
}

// StockOverview existencias por celda. LowStockOnly deja solo las celdas bajo el mínimo del producto.
func (uc *StockQueryUseCase) StockOverview(ctx context.Context, q dto.StockOverviewQuery) ([]dto.StockOverviewItem, error) {
	rows, err := uc.reports.StockOverview(ctx, repository.StockFilter{WarehouseID: q.WarehouseID, ProductID: q.ProductID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockOverviewItem, 0, len(rows))
	for _, r := range rows {
		low := r.OnHand.LessThan(r.MinStockLevel)
		if q.LowStockOnly && !low {
			continue
		}
		out = append(out, dto.StockOverviewItem{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			SKU:            r.SKU,
			WarehouseID:    r.WarehouseID,
			WarehouseCode:  r.WarehouseCode,
			WarehouseName:  r.WarehouseName,
			LocationID:     r.Location(),
			LocationCode:   r.LocationCode,
			QuantityOnHand: r.OnHand,
			MinStockLevel:  r.MinStockLevel,
			IsLowStock:     low,
			UpdatedAt:      r.UpdatedAt,
		})
	}
	return out, nil
}

// ProductTimeline movimientos del producto, más recientes primero.
func (uc *StockQueryUseCase) ProductTimeline(ctx context.Context, productID string, q dto.TimelineQuery) (dto.PagedResult[dto.StockMovement], error) {
	var empty dto.PagedResult[dto.StockMovement]
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return empty, err
	}
	if product == nil {
		return empty, domain.ErrNotFound
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return empty, fmt.Errorf("%w: fromUtc debe ser anterior a toUtc", domain.ErrInvalidInput)
	}
	page := q.PageRequest.Normalize(dto.DefaultLedgerPageSize, dto.MaxLedgerPageSize)
	rows, total, err := uc.reports.Movements(ctx, repository.MovementFilter{
		StockFilter: repository.StockFilter{ProductID: productID, WarehouseID: q.WarehouseID},
		From:        q.From,
		To:          q.To,
		Limit:       page.PageSize,
		Offset:      page.Offset(),
	})
	if err != nil {
		return empty, err
	}
	return dto.NewPagedResult(ToMovementDTOs(rows), page, total), nil
}

// Reconcile compara existencias materializadas con la suma del ledger y con las capas FIFO.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	var balances []inventory.CellBalance
	read := func(reports repository.ReportRepository) error {
		onHand, err := reports.OnHandByCell(ctx)
		if err != nil {
			return fmt.Errorf("conciliación: existencias: %w", err)
		}
		ledger, err := reports.LedgerSumByCell(ctx)
		if err != nil {
			return fmt.Errorf("conciliación: ledger: %w", err)
		}
		layers, err := reports.LayerSumByCell(ctx)
		if err != nil {
			return fmt.Errorf("conciliación: capas: %w", err)
		}
		balances = inventory.MergeBalances(onHand, ledger, layers)
		return nil
	}
	var err error
	if uc.snapshot != nil {
		err = uc.snapshot.ReadSnapshot(ctx, read)
	} else {
		err = read(uc.reports)
	}
	if err != nil {
		return nil, err
	}
	mismatches := inventory.FindMismatches(balances)

	resp := &dto.ReconcileResponse{CellsChecked: len(balances), Mismatches: make([]dto.ReconcileItem, 0, len(mismatches))}
	for _, m := range mismatches {
		resp.Mismatches = append(resp.Mismatches, dto.ReconcileItem{
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			LocationID:  m.Location(),
			OnHand:      m.OnHand,
			LedgerSum:   m.LedgerSum,
			LayerSum:    m.LayerSum,
		})
	}
	return resp, nil
}

// ToMovementDTOs convierte filas del ledger al DTO compartido por timeline y reportes.
func ToMovementDTOs(rows []repository.MovementRow) []dto.StockMovement {
	out := make([]dto.StockMovement, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockMovement{
			TransactionID: r.TransactionID,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			SKU:           r.SKU,
			WarehouseID:   r.WarehouseID,
			WarehouseCode: r.WarehouseCode,
			LocationID:    r.Location(),
			LocationCode:  r.LocationCode,
			Type:          r.Type,
			QuantityDelta: r.QuantityDelta,
			UnitCost:      r.UnitCost,
			CorrelationID: r.CorrelationID,
			Reason:        r.Reason,
			CreatedAt:     r.CreatedAt,
			Reference:     dto.Reference{ReferenceType: r.ReferenceType, ReferenceID: r.ReferenceID},
		})
	}
	return out
}
