package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/inventory"
)

const (
	maxReasonLen        = 500
	maxReferenceTypeLen = 50
	maxReferenceIDLen   = 100
)

// LedgerUseCase registra movimientos de inventario de forma transaccional
// (RECEIVE, ISSUE, TRANSFER, ADJUST). Orden de bloqueo dentro de la tx:
// fila del producto, luego celdas (SELECT FOR UPDATE) en orden de CellKey.
type LedgerUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// ── Entrada ──────────────────────────────────────────────────────────────────

// Receive registra una entrada. Sin UnitCost se usa el costo promedio vigente del producto.
// Crea una capa FIFO y recalcula el costo promedio sobre la existencia total del producto.
func (uc *LedgerUseCase) Receive(ctx context.Context, userID string, in dto.ReceiveRequest) (string, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return "", err
	}
	if in.UnitCost != nil {
		if err := validateUnitCost(*in.UnitCost); err != nil {
			return "", err
		}
	}
	if err := validateReference(in.Reference); err != nil {
		return "", err
	}

	var txID string
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		product, key, err := loadTarget(ctx, r, in.ProductID, in.WarehouseID, in.LocationID)
		if err != nil {
			return err
		}
		cost := product.AverageCost
		if in.UnitCost != nil {
			cost = *in.UnitCost
		}
		row := uc.newRow(userID, key, entity.TransactionReceive, in.Reference)
		txID = row.ID
		return uc.receive(ctx, r, product, key, in.Quantity, cost, row)
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}

// ── Salida ───────────────────────────────────────────────────────────────────

// Issue registra una salida consumiendo capas FIFO. Falla con ErrInsufficientStock
// si la celda no tiene la cantidad; en ese caso no se escribe nada.
func (uc *LedgerUseCase) Issue(ctx context.Context, userID string, in dto.IssueRequest) (string, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return "", err
	}
	if err := validateReference(in.Reference); err != nil {
		return "", err
	}

	var txID string
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		_, key, err := loadTarget(ctx, r, in.ProductID, in.WarehouseID, in.LocationID)
		if err != nil {
			return err
		}
		row := uc.newRow(userID, key, entity.TransactionIssue, in.Reference)
		txID = row.ID
		_, err = uc.issue(ctx, r, key, in.Quantity, row)
		return err
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}

// ── Traslado ─────────────────────────────────────────────────────────────────

// Transfer mueve cantidad entre dos celdas distintas. Escribe dos filas (salida negativa en
// origen, entrada positiva en destino) con el mismo CorrelationID, que es el ID de la fila de
// salida y el valor devuelto. Las capas consumidas se recrean en destino con su costo y fecha.
func (uc *LedgerUseCase) Transfer(ctx context.Context, userID string, in dto.TransferRequest) (string, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return "", err
	}
	if err := validateReference(in.Reference); err != nil {
		return "", err
	}
	from := entity.NewCellKey(in.ProductID, in.FromWarehouseID, emptyToNil(in.FromLocationID))
	to := entity.NewCellKey(in.ProductID, in.ToWarehouseID, emptyToNil(in.ToLocationID))
	if from == to {
		return "", fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}

	var correlationID string
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		if _, err := lockProduct(ctx, r, in.ProductID); err != nil {
			return err
		}
		if err := checkCell(ctx, r, from); err != nil {
			return err
		}
		if err := checkCell(ctx, r, to); err != nil {
			return err
		}
		// Bloqueo en orden estable para evitar deadlocks entre traslados cruzados.
		first, second := from, to
		if second.Less(first) {
			first, second = second, first
		}
		if _, err := lockCell(ctx, r, first); err != nil {
			return err
		}
		if _, err := lockCell(ctx, r, second); err != nil {
			return err
		}

		out := uc.newRow(userID, from, entity.TransactionTransfer, in.Reference)
		correlationID = out.ID
		fifo, err := uc.issue(ctx, r, from, in.Quantity, out)
		if err != nil {
			return err
		}

		inRow := uc.newRow(userID, to, entity.TransactionTransfer, in.Reference)
		inRow.CorrelationID = correlationID
		inRow.QuantityDelta = in.Quantity
		inRow.UnitCost = out.UnitCost
		if err := uc.addToCell(ctx, r, to, in.Quantity); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, inRow); err != nil {
			return err
		}
		for _, c := range fifo.Consumptions {
			layer := &entity.CostLayer{
				ID:                  uuid.New().String(),
				CellKey:             to,
				SourceTransactionID: inRow.ID,
				ReceivedAt:          c.Layer.ReceivedAt,
				OriginalQty:         c.Quantity,
				RemainingQty:        c.Quantity,
				UnitCost:            c.Layer.UnitCost,
			}
			if err := r.Layers.Create(ctx, layer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return correlationID, nil
}

// ── Ajuste ───────────────────────────────────────────────────────────────────

// Adjust corrige la existencia de una celda. Delta positivo entra al costo promedio vigente;
// negativo sale como una salida FIFO. Reason es obligatorio.
func (uc *LedgerUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustRequest) (string, error) {
	if in.DeltaQuantity.IsZero() {
		return "", fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	if !inventory.FitsQuantity(in.DeltaQuantity) {
		return "", fmt.Errorf("%w: el ajuste admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" || len(reason) > maxReasonLen {
		return "", fmt.Errorf("%w: el motivo del ajuste es obligatorio (máx. %d)", domain.ErrInvalidInput, maxReasonLen)
	}
	if err := validateReference(in.Reference); err != nil {
		return "", err
	}

	var txID string
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		product, key, err := loadTarget(ctx, r, in.ProductID, in.WarehouseID, in.LocationID)
		if err != nil {
			return err
		}
		row := uc.newRow(userID, key, entity.TransactionAdjust, in.Reference)
		row.Reason = reason
		txID = row.ID
		if in.DeltaQuantity.IsPositive() {
			return uc.receive(ctx, r, product, key, in.DeltaQuantity, product.AverageCost, row)
		}
		_, err = uc.issue(ctx, r, key, in.DeltaQuantity.Neg(), row)
		return err
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}

// ── Núcleo ───────────────────────────────────────────────────────────────────

// receive suma qty a la celda (ya bloqueada por loadTarget), recalcula el costo promedio,
// guarda la fila y crea la capa FIFO.
func (uc *LedgerUseCase) receive(
	ctx context.Context, r TxRepos, product *entity.Product, key entity.CellKey,
	qty, cost decimal.Decimal, row *entity.StockTransaction,
) error {
	totalOnHand, err := r.Levels.TotalByProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	newAvg := inventory.CostCalculator(totalOnHand, product.AverageCost, qty, cost)
	if !newAvg.Equal(product.AverageCost) {
		if err := r.Products.UpdateAverageCost(ctx, product.ID, newAvg); err != nil {
			return err
		}
	}
	if err := uc.addToCell(ctx, r, key, qty); err != nil {
		return err
	}
	row.QuantityDelta = qty
	row.UnitCost = &cost
	if err := r.Transactions.Create(ctx, row); err != nil {
		return err
	}
	return r.Layers.Create(ctx, &entity.CostLayer{
		ID:                  uuid.New().String(),
		CellKey:             key,
		SourceTransactionID: row.ID,
		ReceivedAt:          row.CreatedAt,
		OriginalQty:         qty,
		RemainingQty:        qty,
		UnitCost:            cost,
	})
}

// issue descuenta qty de la celda (ya bloqueada), consume capas FIFO y guarda la fila
// con el costo unitario promedio de lo consumido.
func (uc *LedgerUseCase) issue(
	ctx context.Context, r TxRepos, key entity.CellKey, qty decimal.Decimal, row *entity.StockTransaction,
) (inventory.FIFOResult, error) {
	level, err := r.Levels.GetForUpdate(ctx, key)
	if err != nil {
		return inventory.FIFOResult{}, err
	}
	if level.Quantity.LessThan(qty) {
		return inventory.FIFOResult{}, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, level.Quantity, qty)
	}
	layers, err := r.Layers.ListOpenForUpdate(ctx, key)
	if err != nil {
		return inventory.FIFOResult{}, err
	}
	fifo, err := inventory.ConsumeFIFO(layers, qty)
	if err != nil {
		return inventory.FIFOResult{}, err
	}
	for _, c := range fifo.Consumptions {
		if err := r.Layers.UpdateRemaining(ctx, c.Layer.ID, c.Remaining()); err != nil {
			return inventory.FIFOResult{}, err
		}
	}
	if err := r.Levels.SetQuantity(ctx, key, level.Quantity.Sub(qty)); err != nil {
		return inventory.FIFOResult{}, err
	}
	unitCost := fifo.UnitCost()
	row.QuantityDelta = qty.Neg()
	row.UnitCost = &unitCost
	if err := r.Transactions.Create(ctx, row); err != nil {
		return inventory.FIFOResult{}, err
	}
	return fifo, nil
}

func (uc *LedgerUseCase) addToCell(ctx context.Context, r TxRepos, key entity.CellKey, qty decimal.Decimal) error {
	level, err := r.Levels.GetForUpdate(ctx, key)
	if err != nil {
		return err
	}
	return r.Levels.SetQuantity(ctx, key, level.Quantity.Add(qty))
}

func (uc *LedgerUseCase) newRow(userID string, key entity.CellKey, txType string, ref dto.Reference) *entity.StockTransaction {
	id := uuid.New().String()
	return &entity.StockTransaction{
		ID:            id,
		ProductID:     key.ProductID,
		WarehouseID:   key.WarehouseID,
		LocationID:    key.Location(),
		Type:          txType,
		ReferenceType: strings.TrimSpace(ref.ReferenceType),
		ReferenceID:   strings.TrimSpace(ref.ReferenceID),
		CorrelationID: id,
		CreatedBy:     userID,
		CreatedAt:     uc.now(),
	}
}

// loadTarget bloquea el producto, valida bodega y ubicación y bloquea la celda.
func loadTarget(ctx context.Context, r TxRepos, productID, warehouseID string, locationID *string) (*entity.Product, entity.CellKey, error) {
	key := entity.NewCellKey(productID, warehouseID, emptyToNil(locationID))
	product, err := lockProduct(ctx, r, productID)
	if err != nil {
		return nil, key, err
	}
	if err := checkCell(ctx, r, key); err != nil {
		return nil, key, err
	}
	if _, err := lockCell(ctx, r, key); err != nil {
		return nil, key, err
	}
	return product, key, nil
}

func lockProduct(ctx context.Context, r TxRepos, productID string) (*entity.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: productId es obligatorio", domain.ErrInvalidInput)
	}
	product, err := r.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrInactive, product.SKU)
	}
	return product, nil
}

// checkCell exige bodega activa y, si hay ubicación, que sea activa y de esa bodega.
func checkCell(ctx context.Context, r TxRepos, key entity.CellKey) error {
	if strings.TrimSpace(key.WarehouseID) == "" {
		return fmt.Errorf("%w: warehouseId es obligatorio", domain.ErrInvalidInput)
	}
	wh, err := r.Warehouses.GetByID(ctx, key.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, key.WarehouseID)
	}
	if !wh.IsActive {
		return fmt.Errorf("%w: bodega %s", domain.ErrInactive, wh.Code)
	}
	if key.LocationID == "" {
		return nil
	}
	loc, err := r.Locations.GetByID(ctx, key.LocationID)
	if err != nil {
		return err
	}
	if loc == nil || loc.WarehouseID != key.WarehouseID {
		return fmt.Errorf("%w: ubicación %s en la bodega %s", domain.ErrNotFound, key.LocationID, wh.Code)
	}
	if !loc.IsActive {
		return fmt.Errorf("%w: ubicación %s", domain.ErrInactive, loc.Code)
	}
	return nil
}

// lockCell crea la celda si no existe y la bloquea.
func lockCell(ctx context.Context, r TxRepos, key entity.CellKey) (*entity.StockLevel, error) {
	if err := r.Levels.Ensure(ctx, key); err != nil {
		return nil, err
	}
	return r.Levels.GetForUpdate(ctx, key)
}

// requirePositive exige qty > 0 y representable en NUMERIC(18,4) sin redondeo.
func requirePositive(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !inventory.FitsQuantity(qty) {
		return fmt.Errorf("%w: la cantidad admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	return nil
}

func validateUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if !inventory.FitsScale(cost, inventory.CostScale) {
		return fmt.Errorf("%w: el costo unitario admite hasta %d decimales", domain.ErrInvalidInput, inventory.CostScale)
	}
	return nil
}

func validateReference(ref dto.Reference) error {
	if len(strings.TrimSpace(ref.ReferenceType)) > maxReferenceTypeLen || len(strings.TrimSpace(ref.ReferenceID)) > maxReferenceIDLen {
		return fmt.Errorf("%w: referencia demasiado larga", domain.ErrInvalidInput)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
