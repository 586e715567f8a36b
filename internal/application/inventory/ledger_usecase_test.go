package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ims-api/internal/domain/inventory"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var ctx = context.Background()

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}
func sp(s string) *string { return &s }

const (
	userID = "user-1"
	prodID = "prod-1"
	whA    = "wh-a"
	whB    = "wh-b"
	locA1  = "loc-a1"
	locB1  = "loc-b1"
)

// fixture: un producto, dos bodegas activas con una ubicación cada una.
func fixture(t *testing.T) (*memStore, *inventory.LedgerUseCase) {
	t.Helper()
	s := newMemStore()
	s.products[prodID] = entity.Product{ID: prodID, Name: "Tornillo", SKU: "TOR-1", MinStockLevel: d("5"), IsActive: true}
	s.warehouses[whA] = entity.Warehouse{ID: whA, Code: "A", IsActive: true}
	s.warehouses[whB] = entity.Warehouse{ID: whB, Code: "B", IsActive: true}
	s.locations[locA1] = entity.Location{ID: locA1, WarehouseID: whA, Code: "A-01", IsActive: true}
	s.locations[locB1] = entity.Location{ID: locB1, WarehouseID: whB, Code: "B-01", IsActive: true}

	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	uc := inventory.NewLedgerUseCase(&memRunner{store: s}).WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	return s, uc
}

func cell(wh string, loc string) entity.CellKey {
	return entity.CellKey{ProductID: prodID, WarehouseID: wh, LocationID: loc}
}

func receive(t *testing.T, uc *inventory.LedgerUseCase, wh string, loc *string, qty, cost string) string {
	t.Helper()
	id, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: wh, LocationID: loc, Quantity: d(qty), UnitCost: dp(cost)})
	require.NoError(t, err)
	return id
}

// assertConsistent verifica que existencia = suma del ledger = suma de capas en cada celda.
func assertConsistent(t *testing.T, s *memStore) {
	t.Helper()
	ledger := domaininv.ProjectLedger(s.txs)
	for key, level := range s.levels {
		assert.True(t, level.Quantity.Equal(ledger[key]), "celda %+v: existencia %s, ledger %s", key, level.Quantity, ledger[key])
		assert.True(t, level.Quantity.Equal(s.layerSum(key)), "celda %+v: existencia %s, capas %s", key, level.Quantity, s.layerSum(key))
		assert.False(t, level.Quantity.IsNegative(), "celda %+v negativa", key)
	}
}

// ── Entradas ─────────────────────────────────────────────────────────────────

func TestReceive_CreaCapaYPromedio(t *testing.T) {
	s, uc := fixture(t)

	id := receive(t, uc, whA, nil, "10", "5")
	receive(t, uc, whA, nil, "10", "7")

	assert.True(t, s.onHand(cell(whA, "")).Equal(d("20")))
	assert.True(t, s.products[prodID].AverageCost.Equal(d("6")), "promedio %s", s.products[prodID].AverageCost)
	require.Len(t, s.txs, 2)
	assert.Equal(t, id, s.txs[0].ID)
	assert.Equal(t, id, s.txs[0].CorrelationID)
	assert.Equal(t, entity.TransactionReceive, s.txs[0].Type)
	assert.Equal(t, userID, s.txs[0].CreatedBy)
	assert.Len(t, s.layers, 2)
	assertConsistent(t, s)
}

func TestReceive_PromedioSobreExistenciaTotalDelProducto(t *testing.T) {
	s, uc := fixture(t)

	receive(t, uc, whA, nil, "30", "2")
	receive(t, uc, whB, nil, "10", "6")

	// (30*2 + 10*6) / 40 = 3
	assert.True(t, s.products[prodID].AverageCost.Equal(d("3")), "promedio %s", s.products[prodID].AverageCost)
}

func TestReceive_SinCostoUsaPromedioVigente(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "4")

	_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("5")})
	require.NoError(t, err)

	last := s.txs[len(s.txs)-1]
	require.NotNil(t, last.UnitCost)
	assert.True(t, last.UnitCost.Equal(d("4")))
	assert.True(t, s.products[prodID].AverageCost.Equal(d("4")))
}

func TestReceive_Validaciones(t *testing.T) {
	s, uc := fixture(t)

	_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("1"), UnitCost: dp("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: "otro", WarehouseID: whA, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, LocationID: sp(locB1), Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la ubicación debe pertenecer a la bodega")

	assert.Empty(t, s.txs)
}

func TestReceive_EntidadesInactivas(t *testing.T) {
	s, uc := fixture(t)

	w := s.warehouses[whB]
	w.IsActive = false
	s.warehouses[whB] = w
	_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whB, Quantity: d("1"), UnitCost: dp("1")})
	assert.ErrorIs(t, err, domain.ErrInactive)

	l := s.locations[locA1]
	l.IsActive = false
	s.locations[locA1] = l
	_, err = uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, LocationID: sp(locA1), Quantity: d("1"), UnitCost: dp("1")})
	assert.ErrorIs(t, err, domain.ErrInactive)

	p := s.products[prodID]
	p.IsActive = false
	s.products[prodID] = p
	_, err = uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("1"), UnitCost: dp("1")})
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestLedger_RechazaDecimalesFueraDeEscala(t *testing.T) {
	cases := []struct {
		name string
		run  func(uc *inventory.LedgerUseCase) error
	}{
		{"entrada con cinco decimales", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("0.00001"), UnitCost: dp("1")})
			return err
		}},
		{"entrada con costo de siete decimales", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("1"), UnitCost: dp("0.0000001")})
			return err
		}},
		{"entrada fuera de rango", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("100000000000000"), UnitCost: dp("1")})
			return err
		}},
		{"salida con cinco decimales", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("1.00005")})
			return err
		}},
		{"traslado con cinco decimales", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Transfer(ctx, userID, dto.TransferRequest{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: d("0.00001")})
			return err
		}},
		{"ajuste con cinco decimales", func(uc *inventory.LedgerUseCase) error {
			_, err := uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("-0.00001"), Reason: "conteo"})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, uc := fixture(t)
			receive(t, uc, whA, nil, "10", "2")

			assert.ErrorIs(t, tc.run(uc), domain.ErrInvalidInput)
			assert.Len(t, s.txs, 1, "no se escribe ninguna fila")
			assert.True(t, s.onHand(cell(whA, "")).Equal(d("10")))
		})
	}
}

func TestLedger_AceptaEscalaExacta(t *testing.T) {
	s, uc := fixture(t)

	_, err := uc.Receive(ctx, userID, dto.ReceiveRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("1.2500"), UnitCost: dp("0.123456")})
	require.NoError(t, err)
	_, err = uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("0.0001")})
	require.NoError(t, err)

	assert.True(t, s.onHand(cell(whA, "")).Equal(d("1.2499")))
	assertConsistent(t, s)
}

// ── Salidas ──────────────────────────────────────────────────────────────────

func TestIssue_MismaCantidadDejaCeldaEnCero(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, sp(locA1), "8", "3")

	_, err := uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whA, LocationID: sp(locA1), Quantity: d("8")})
	require.NoError(t, err)

	assert.True(t, s.onHand(cell(whA, locA1)).IsZero())
	assertConsistent(t, s)
}

func TestIssue_SinExistenciaNoEscribeNada(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "3", "3")
	before := len(s.txs)

	_, err := uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("3.5")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, s.txs, before)
	assert.True(t, s.onHand(cell(whA, "")).Equal(d("3")))
	assertConsistent(t, s)
}

func TestIssue_ConsumeFIFOYRegistraCosto(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "10")
	receive(t, uc, whA, nil, "5", "12")

	_, err := uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whA, Quantity: d("12")})
	require.NoError(t, err)

	last := s.txs[len(s.txs)-1]
	assert.True(t, last.QuantityDelta.Equal(d("-12")))
	require.NotNil(t, last.UnitCost)
	// (10*10 + 2*12) / 12
	assert.True(t, last.UnitCost.Equal(d("10.333333")), "costo %s", last.UnitCost)

	// quedan 3 u a 12
	var open []entity.CostLayer
	for _, l := range s.layers {
		open = append(open, l)
	}
	assert.True(t, domaininv.FIFOValue(open).Equal(d("36")))
	assertConsistent(t, s)
}

// ── Traslados ────────────────────────────────────────────────────────────────

func TestTransfer_DosFilasConCorrelacion(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, sp(locA1), "10", "4")

	corr, err := uc.Transfer(ctx, userID, dto.TransferRequest{
		ProductID: prodID, FromWarehouseID: whA, FromLocationID: sp(locA1),
		ToWarehouseID: whB, ToLocationID: sp(locB1), Quantity: d("4"),
	})
	require.NoError(t, err)

	legs, err := memTransactions{s}.ListByCorrelation(ctx, corr)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, entity.TransactionTransfer, legs[0].Type)
	assert.Equal(t, entity.TransactionTransfer, legs[1].Type)
	assert.True(t, legs[0].QuantityDelta.Add(legs[1].QuantityDelta).IsZero(), "deltas opuestos")
	assert.True(t, legs[0].QuantityDelta.Equal(d("-4")))
	assert.Equal(t, whA, legs[0].WarehouseID)
	assert.Equal(t, whB, legs[1].WarehouseID)

	assert.True(t, s.onHand(cell(whA, locA1)).Equal(d("6")))
	assert.True(t, s.onHand(cell(whB, locB1)).Equal(d("4")))
	assert.True(t, s.products[prodID].AverageCost.Equal(d("4")), "el traslado no cambia el promedio")
	assertConsistent(t, s)
}

func TestTransfer_ConservaAntiguedadDeCapas(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "2", "1")
	receive(t, uc, whB, nil, "2", "9")
	receive(t, uc, whA, nil, "2", "5")

	// llevar a B la capa más antigua de A (costo 1)
	_, err := uc.Transfer(ctx, userID, dto.TransferRequest{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: d("2")})
	require.NoError(t, err)

	// en B la capa trasladada (recibida primero) sale antes que la de costo 9
	_, err = uc.Issue(ctx, userID, dto.IssueRequest{ProductID: prodID, WarehouseID: whB, Quantity: d("2")})
	require.NoError(t, err)
	last := s.txs[len(s.txs)-1]
	assert.True(t, last.UnitCost.Equal(d("1")), "costo %s", last.UnitCost)
	assertConsistent(t, s)
}

func TestTransfer_MismaCeldaEsInvalido(t *testing.T) {
	_, uc := fixture(t)
	_, err := uc.Transfer(ctx, userID, dto.TransferRequest{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whA, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_SinExistenciaNoEscribeNada(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "1", "1")

	_, err := uc.Transfer(ctx, userID, dto.TransferRequest{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: d("2")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, s.txs, 1)
	_, exists := s.levels[cell(whB, "")]
	assert.False(t, exists, "rollback descarta la celda destino")
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

func TestAdjust_MotivoObligatorio(t *testing.T) {
	_, uc := fixture(t)
	_, err := uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("1"), Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("0"), Reason: "conteo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_PositivoYNegativo(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "2")

	_, err := uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("5"), Reason: "conteo físico"})
	require.NoError(t, err)
	assert.True(t, s.products[prodID].AverageCost.Equal(d("2")), "entra al promedio vigente")

	_, err = uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("-15"), Reason: "merma"})
	require.NoError(t, err)

	_, err = uc.Adjust(ctx, userID, dto.AdjustRequest{ProductID: prodID, WarehouseID: whA, DeltaQuantity: d("-1"), Reason: "merma"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	last := s.txs[len(s.txs)-1]
	assert.Equal(t, entity.TransactionAdjust, last.Type)
	assert.Equal(t, "merma", last.Reason)
	assert.True(t, s.onHand(cell(whA, "")).IsZero())
	assertConsistent(t, s)
}

// ── Conciliación ─────────────────────────────────────────────────────────────

func TestReconcile_SinDescuadresDespuesDeOperaciones(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "2")
	_, err := uc.Transfer(ctx, userID, dto.TransferRequest{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, ToLocationID: sp(locB1), Quantity: d("3")})
	require.NoError(t, err)

	q := inventory.NewStockQueryUseCase(memReports{s}, memProducts{s})
	res, err := q.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CellsChecked)
	assert.Empty(t, res.Mismatches)

	// corromper una celda materializada
	key := cell(whA, "")
	lvl := s.levels[key]
	lvl.Quantity = d("99")
	s.levels[key] = lvl

	res, err = q.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, res.Mismatches, 1)
	assert.Equal(t, whA, res.Mismatches[0].WarehouseID)
	assert.True(t, res.Mismatches[0].LedgerSum.Equal(d("7")))
}

func TestReconcile_LeeTodoEnUnaInstantanea(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "2")

	snap := &snapshotRunner{s: s}
	q := inventory.NewStockQueryUseCase(unavailableReports{memReports{s}}, memProducts{s}).WithSnapshot(snap)

	res, err := q.Reconcile(ctx)
	require.NoError(t, err, "las tres lecturas van por la instantánea")
	assert.Equal(t, 1, snap.calls)
	assert.Equal(t, 1, res.CellsChecked)
	assert.Empty(t, res.Mismatches)

	snap.err = errors.New("could not serialize access")
	_, err = q.Reconcile(ctx)
	assert.ErrorContains(t, err, "serialize")
}

func TestStockOverview_SoloBajoMinimo(t *testing.T) {
	s, uc := fixture(t)
	receive(t, uc, whA, nil, "10", "2")
	receive(t, uc, whB, nil, "2", "2")

	q := inventory.NewStockQueryUseCase(memReports{s}, memProducts{s})
	items, err := q.StockOverview(ctx, dto.StockOverviewQuery{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, whB, items[0].WarehouseID)
	assert.True(t, items[0].IsLowStock)
}

// memReports implementa lo necesario de ReportRepository sobre memStore.
type memReports struct{ s *memStore }

var _ repository.ReportRepository = memReports{}

func (m memReports) StockOverview(_ context.Context, f repository.StockFilter) ([]repository.StockOverviewRow, error) {
	var out []repository.StockOverviewRow
	for k, l := range m.s.levels {
		p := m.s.products[k.ProductID]
		out = append(out, repository.StockOverviewRow{CellKey: k, SKU: p.SKU, OnHand: l.Quantity, MinStockLevel: p.MinStockLevel})
	}
	return out, nil
}
func (m memReports) Movements(context.Context, repository.MovementFilter) ([]repository.MovementRow, int, error) {
	return nil, 0, nil
}
func (m memReports) LowStock(context.Context, repository.StockFilter) ([]repository.StockOverviewRow, error) {
	return nil, nil
}
func (m memReports) DeadStock(context.Context, time.Time, string) ([]repository.DeadStockRow, error) {
	return nil, nil
}
func (m memReports) ValuationCells(context.Context, repository.StockFilter) ([]repository.ValuationCell, error) {
	return nil, nil
}
func (m memReports) OpenLayers(context.Context, repository.StockFilter) ([]entity.CostLayer, error) {
	return nil, nil
}
func (m memReports) OnHandByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	out := map[entity.CellKey]decimal.Decimal{}
	for k, l := range m.s.levels {
		out[k] = l.Quantity
	}
	return out, nil
}
func (m memReports) LedgerSumByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return domaininv.ProjectLedger(m.s.txs), nil
}
func (m memReports) LayerSumByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	out := map[entity.CellKey]decimal.Decimal{}
	for _, l := range m.s.layers {
		out[l.CellKey] = out[l.CellKey].Add(l.RemainingQty)
	}
	return out, nil
}

// snapshotRunner sirve las lecturas de conciliación desde el memStore y cuenta las instantáneas abiertas.
type snapshotRunner struct {
	s     *memStore
	calls int
	err   error
}

func (r *snapshotRunner) ReadSnapshot(_ context.Context, fn func(repository.ReportRepository) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(memReports{r.s})
}

// unavailableReports falla en las lecturas que deben hacerse dentro de la instantánea.
type unavailableReports struct{ memReports }

var errOutsideSnapshot = errors.New("lectura fuera de la instantánea")

func (unavailableReports) OnHandByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return nil, errOutsideSnapshot
}
func (unavailableReports) LedgerSumByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return nil, errOutsideSnapshot
}
func (unavailableReports) LayerSumByCell(context.Context) (map[entity.CellKey]decimal.Decimal, error) {
	return nil, errOutsideSnapshot
}
