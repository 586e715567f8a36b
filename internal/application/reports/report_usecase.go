// Package reports contiene los reportes de existencias, movimientos y valorización
// y su exportación a XLSX / PDF.
package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/application/dto"
	appinv "github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/inventory"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// DefaultDeadStockDays ventana por defecto del reporte de stock sin movimiento.
const DefaultDeadStockDays = 30

// ReportUseCase reportes read-only sobre el ledger y las existencias.
type ReportUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// StockMovements movimientos del ledger en [From, To], paginados.
func (uc *ReportUseCase) StockMovements(ctx context.Context, q dto.StockMovementsQuery) (dto.PagedResult[dto.StockMovement], error) {
	var empty dto.PagedResult[dto.StockMovement]
	if err := validateRange(q.From, q.To); err != nil {
		return empty, err
	}
	page := q.PageRequest.Normalize(dto.DefaultLedgerPageSize, dto.MaxLedgerPageSize)
	rows, total, err := uc.repo.Movements(ctx, movementFilter(q, page.PageSize, page.Offset()))
	if err != nil {
		return empty, err
	}
	return dto.NewPagedResult(appinv.ToMovementDTOs(rows), page, total), nil
}

func movementFilter(q dto.StockMovementsQuery, limit, offset int) repository.MovementFilter {
	from, to := q.From, q.To
	return repository.MovementFilter{
		StockFilter: repository.StockFilter{WarehouseID: q.WarehouseID, ProductID: q.ProductID},
		From:        &from,
		To:          &to,
		Limit:       limit,
		Offset:      offset,
	}
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: fromUtc y toUtc son obligatorios", domain.ErrInvalidInput)
	}
	if from.After(to) {
		return fmt.Errorf("%w: fromUtc debe ser anterior a toUtc", domain.ErrInvalidInput)
	}
	return nil
}

// ── Bajo stock ───────────────────────────────────────────────────────────────

// LowStock celdas bajo el mínimo ordenadas por faltante descendente (luego SKU).
func (uc *ReportUseCase) LowStock(ctx context.Context, q dto.LowStockQuery) ([]dto.LowStockItem, error) {
	rows, err := uc.repo.LowStock(ctx, repository.StockFilter{WarehouseID: q.WarehouseID, ProductID: q.ProductID})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItem, 0, len(rows))
	for _, r := range rows {
		shortage := r.MinStockLevel.Sub(r.OnHand)
		if !shortage.IsPositive() {
			continue
		}
		items = append(items, dto.LowStockItem{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			SKU:            r.SKU,
			WarehouseID:    r.WarehouseID,
			WarehouseCode:  r.WarehouseCode,
			LocationID:     r.Location(),
			LocationCode:   r.LocationCode,
			QuantityOnHand: r.OnHand,
			MinStockLevel:  r.MinStockLevel,
			Shortage:       shortage,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Shortage.Equal(b.Shortage) {
			return a.Shortage.GreaterThan(b.Shortage)
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.WarehouseCode+a.LocationCode < b.WarehouseCode+b.LocationCode
	})
	return items, nil
}

// ── Stock sin movimiento ─────────────────────────────────────────────────────

// DeadStock pares (producto, bodega) con existencias y sin movimientos en los últimos Days días.
func (uc *ReportUseCase) DeadStock(ctx context.Context, q dto.DeadStockQuery) ([]dto.DeadStockItem, error) {
	days := q.Days
	if days == 0 {
		days = DefaultDeadStockDays
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: days debe ser >= 1", domain.ErrInvalidInput)
	}
	now := uc.now()
	rows, err := uc.repo.DeadStock(ctx, now.AddDate(0, 0, -days), q.WarehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeadStockItem, 0, len(rows))
	for _, r := range rows {
		item := dto.DeadStockItem{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			SKU:            r.SKU,
			WarehouseID:    r.WarehouseID,
			WarehouseCode:  r.WarehouseCode,
			QuantityOnHand: r.OnHand,
			LastMovementAt: r.LastMovementAt,
		}
		if r.LastMovementAt != nil {
			since := int(now.Sub(*r.LastMovementAt).Hours() / 24)
			item.DaysSinceLastMovement = &since
		}
		items = append(items, item)
	}
	return items, nil
}

// ── Valorización ─────────────────────────────────────────────────────────────

// StockValuation valor de las existencias por celda. Fifo suma las capas abiertas;
// WeightedAverage multiplica la existencia por el costo promedio del producto.
func (uc *ReportUseCase) StockValuation(ctx context.Context, q dto.StockValuationQuery) (*dto.StockValuationReport, error) {
	mode := q.Mode
	if mode == "" {
		mode = inventory.ValuationFIFO
	}
	if !inventory.IsValidValuationMode(mode) {
		return nil, fmt.Errorf("%w: modo de valorización %q no soportado (Fifo | WeightedAverage)", domain.ErrInvalidInput, q.Mode)
	}
	filter := repository.StockFilter{WarehouseID: q.WarehouseID, ProductID: q.ProductID}
	cells, err := uc.repo.ValuationCells(ctx, filter)
	if err != nil {
		return nil, err
	}

	var layersByCell map[entity.CellKey][]entity.CostLayer
	if mode == inventory.ValuationFIFO {
		layers, err := uc.repo.OpenLayers(ctx, filter)
		if err != nil {
			return nil, err
		}
		layersByCell = make(map[entity.CellKey][]entity.CostLayer)
		for _, l := range layers {
			layersByCell[l.CellKey] = append(layersByCell[l.CellKey], l)
		}
	}

	report := &dto.StockValuationReport{Mode: mode, Items: make([]dto.StockValuationItem, 0, len(cells)), TotalValue: decimal.Zero}
	for _, c := range cells {
		var value, unitCost decimal.Decimal
		if mode == inventory.ValuationFIFO {
			value = inventory.FIFOValue(layersByCell[c.CellKey])
			unitCost = inventory.UnitCostOf(value, c.OnHand)
		} else {
			value = inventory.WeightedAverageValue(c.OnHand, c.AverageCost)
			unitCost = c.AverageCost
		}
		value = value.Round(2)
		report.TotalValue = report.TotalValue.Add(value)
		report.Items = append(report.Items, dto.StockValuationItem{
			ProductID:      c.ProductID,
			ProductName:    c.ProductName,
			SKU:            c.SKU,
			WarehouseID:    c.WarehouseID,
			WarehouseCode:  c.WarehouseCode,
			LocationID:     c.Location(),
			LocationCode:   c.LocationCode,
			QuantityOnHand: c.OnHand,
			UnitCost:       unitCost,
			TotalValue:     value,
		})
	}
	return report, nil
}

// ── Exportación ──────────────────────────────────────────────────────────────

// Nombres de reporte exportables (segmento :report de la ruta).
const (
	ReportStockMovements = "stock-movements"
	ReportLowStock       = "low-stock"
	ReportDeadStock      = "dead-stock"
	ReportStockValuation = "stock-valuation"
)

// maxExportRows tope de filas del export de movimientos.
const maxExportRows = 10000

// ExportQuery filtros del export; cada reporte usa los que le aplican.
type ExportQuery struct {
	Format      string
	From        time.Time
	To          time.Time
	WarehouseID string
	ProductID   string
	Days        int
	Mode        string
}

// ExportUseCase genera los reportes como documentos descargables.
type ExportUseCase struct {
	reports   *ReportUseCase
	exporters map[string]TableExporter
}

// NewExportUseCase registra los exportadores por formato.
func NewExportUseCase(reports *ReportUseCase, exporters ...TableExporter) *ExportUseCase {
	m := make(map[string]TableExporter, len(exporters))
	for _, e := range exporters {
		m[e.Format()] = e
	}
	return &ExportUseCase{reports: reports, exporters: m}
}

// Export construye el reporte y lo serializa en el formato pedido (xlsx por defecto).
func (uc *ExportUseCase) Export(ctx context.Context, report string, q ExportQuery) (*dto.ExportedFile, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = dto.ExportXLSX
	}
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado (xlsx | pdf)", domain.ErrInvalidInput, q.Format)
	}

	table, err := uc.buildTable(ctx, report, q)
	if err != nil {
		return nil, err
	}
	table.GeneratedAt = uc.reports.now()

	content, err := exporter.Export(*table)
	if err != nil {
		return nil, fmt.Errorf("exportar %s a %s: %w", report, format, err)
	}
	return &dto.ExportedFile{
		FileName:    fmt.Sprintf("%s-%s.%s", report, table.GeneratedAt.Format("20060102-1504"), format),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

func (uc *ExportUseCase) buildTable(ctx context.Context, report string, q ExportQuery) (*Table, error) {
	filters := describeFilters(q)
	switch report {
	case ReportStockMovements:
		if err := validateRange(q.From, q.To); err != nil {
			return nil, err
		}
		mq := dto.StockMovementsQuery{From: q.From, To: q.To, WarehouseID: q.WarehouseID, ProductID: q.ProductID}
		rows, _, err := uc.reports.repo.Movements(ctx, movementFilter(mq, maxExportRows, 0))
		if err != nil {
			return nil, err
		}
		t := &Table{
			Title:   "Movimientos de inventario",
			Filters: append(filters, "Desde: "+q.From.Format(time.RFC3339), "Hasta: "+q.To.Format(time.RFC3339)),
			Columns: []Column{{Header: "Fecha"}, {Header: "Tipo"}, {Header: "SKU"}, {Header: "Producto"}, {Header: "Bodega"}, {Header: "Ubicación"},
				{Header: "Cantidad", Numeric: true}, {Header: "Costo unitario", Numeric: true}, {Header: "Referencia"}},
		}
		for _, m := range appinv.ToMovementDTOs(rows) {
			t.Rows = append(t.Rows, []any{m.CreatedAt, m.Type, m.SKU, m.ProductName, m.WarehouseCode, m.LocationCode,
				m.QuantityDelta, m.UnitCost, joinRef(m.Reference)})
		}
		return t, nil

	case ReportLowStock:
		items, err := uc.reports.LowStock(ctx, dto.LowStockQuery{WarehouseID: q.WarehouseID, ProductID: q.ProductID})
		if err != nil {
			return nil, err
		}
		t := &Table{
			Title:   "Productos bajo stock mínimo",
			Filters: filters,
			Columns: []Column{{Header: "SKU"}, {Header: "Producto"}, {Header: "Bodega"}, {Header: "Ubicación"},
				{Header: "Existencia", Numeric: true}, {Header: "Mínimo", Numeric: true}, {Header: "Faltante", Numeric: true}},
		}
		for _, i := range items {
			t.Rows = append(t.Rows, []any{i.SKU, i.ProductName, i.WarehouseCode, i.LocationCode, i.QuantityOnHand, i.MinStockLevel, i.Shortage})
		}
		return t, nil

	case ReportDeadStock:
		items, err := uc.reports.DeadStock(ctx, dto.DeadStockQuery{Days: q.Days, WarehouseID: q.WarehouseID})
		if err != nil {
			return nil, err
		}
		days := q.Days
		if days == 0 {
			days = DefaultDeadStockDays
		}
		t := &Table{
			Title:   "Stock sin movimiento",
			Filters: append(filters, fmt.Sprintf("Días: %d", days)),
			Columns: []Column{{Header: "SKU"}, {Header: "Producto"}, {Header: "Bodega"}, {Header: "Existencia", Numeric: true},
				{Header: "Último movimiento"}, {Header: "Días", Numeric: true}},
		}
		for _, i := range items {
			var since any
			if i.DaysSinceLastMovement != nil {
				since = *i.DaysSinceLastMovement
			}
			t.Rows = append(t.Rows, []any{i.SKU, i.ProductName, i.WarehouseCode, i.QuantityOnHand, i.LastMovementAt, since})
		}
		return t, nil

	case ReportStockValuation:
		rep, err := uc.reports.StockValuation(ctx, dto.StockValuationQuery{Mode: q.Mode, WarehouseID: q.WarehouseID, ProductID: q.ProductID})
		if err != nil {
			return nil, err
		}
		t := &Table{
			Title:   "Valorización de inventario (" + rep.Mode + ")",
			Filters: filters,
			Columns: []Column{{Header: "SKU"}, {Header: "Producto"}, {Header: "Bodega"}, {Header: "Ubicación"},
				{Header: "Existencia", Numeric: true}, {Header: "Costo unitario", Numeric: true}, {Header: "Valor", Numeric: true}},
		}
		for _, i := range rep.Items {
			t.Rows = append(t.Rows, []any{i.SKU, i.ProductName, i.WarehouseCode, i.LocationCode, i.QuantityOnHand, i.UnitCost, i.TotalValue})
		}
		t.Rows = append(t.Rows, []any{"TOTAL", nil, nil, nil, nil, nil, rep.TotalValue})
		return t, nil
	}
	return nil, fmt.Errorf("%w: reporte %q", domain.ErrNotFound, report)
}

func describeFilters(q ExportQuery) []string {
	var out []string
	if q.WarehouseID != "" {
		out = append(out, "Bodega: "+q.WarehouseID)
	}
	if q.ProductID != "" {
		out = append(out, "Producto: "+q.ProductID)
	}
	return out
}

func joinRef(r dto.Reference) string {
	switch {
	case r.ReferenceType != "" && r.ReferenceID != "":
		return r.ReferenceType + " " + r.ReferenceID
	case r.ReferenceID != "":
		return r.ReferenceID
	}
	return r.ReferenceType
}
