package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/application/usecase"
	"github.com/jhoicas/ims-api/internal/domain"
)

var ctx = context.Background()

// ── Productos ────────────────────────────────────────────────────────────────

func TestProductCreate_NormalizaSKU(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: " Tornillo ", SKU: " tor-01 ", MinStockLevel: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", p.Name)
	assert.Equal(t, "TOR-01", p.SKU)
	assert.True(t, p.IsActive)
	assert.True(t, p.AverageCost.IsZero())
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", SKU: "sku-1"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "B", SKU: "SKU-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el SKU se compara ya normalizado")
}

func TestProductCreate_CodigoDeBarrasDuplicado(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", SKU: "A", Barcode: "7701"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "B", SKU: "B", Barcode: "7701"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "", SKU: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X", MinStockLevel: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_StockMinimoConMasDeCuatroDecimales(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())

	for _, v := range []string{"0.00001", "2.12345", "100000000000000"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X", MinStockLevel: decimal.RequireFromString(v)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, v)
	}

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X", MinStockLevel: decimal.RequireFromString("2.5")})
	require.NoError(t, err)

	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "X", SKU: "X", MinStockLevel: decimal.RequireFromString("0.00005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.MinStockLevel.Equal(decimal.RequireFromString("2.5")), "el mínimo no cambia")
}

func TestProductUpdate_ConservaSuPropioSKU(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", SKU: "A"})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "A2", SKU: "a"})
	require.NoError(t, err)
	assert.Equal(t, "A2", upd.Name)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: "X", SKU: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_FiltraInactivosYPagina(t *testing.T) {
	repo := newMemProducts()
	uc := usecase.NewProductUseCase(repo)
	var ids []string
	for _, sku := range []string{"A", "B", "C"} {
		p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Prod " + sku, SKU: sku})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	require.NoError(t, uc.SetActive(ctx, ids[1], false))

	active := true
	res, err := uc.List(ctx, dto.ListQuery{IsActive: &active, PageRequest: dto.PageRequest{Page: 1, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "A", res.Items[0].SKU)
}

func TestProductGetByBarcode(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProducts())
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", SKU: "A", Barcode: "123"})
	require.NoError(t, err)

	p, err := uc.GetByBarcode(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "A", p.SKU)

	_, err = uc.GetByBarcode(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Bodegas y ubicaciones ────────────────────────────────────────────────────

func TestWarehouseCreate_CodigoDuplicado(t *testing.T) {
	uc := usecase.NewWarehouseUseCase(newMemWarehouses())
	w, err := uc.Create(ctx, dto.WarehouseRequest{Name: "Central", Code: "bod-1"})
	require.NoError(t, err)
	assert.Equal(t, "BOD-1", w.Code)

	_, err = uc.Create(ctx, dto.WarehouseRequest{Name: "Otra", Code: "BOD-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLocation_CodigoUnicoPorBodega(t *testing.T) {
	warehouses := newMemWarehouses()
	wuc := usecase.NewWarehouseUseCase(warehouses)
	luc := usecase.NewLocationUseCase(newMemLocations(), warehouses)

	w1, err := wuc.Create(ctx, dto.WarehouseRequest{Name: "W1", Code: "W1"})
	require.NoError(t, err)
	w2, err := wuc.Create(ctx, dto.WarehouseRequest{Name: "W2", Code: "W2"})
	require.NoError(t, err)

	_, err = luc.Create(ctx, w1.ID, dto.LocationRequest{Code: "a-01"})
	require.NoError(t, err)
	_, err = luc.Create(ctx, w1.ID, dto.LocationRequest{Code: "A-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = luc.Create(ctx, w2.ID, dto.LocationRequest{Code: "A-01"})
	assert.NoError(t, err, "el mismo código puede existir en otra bodega")
}

func TestLocation_OtraBodegaEsNoEncontrada(t *testing.T) {
	warehouses := newMemWarehouses()
	wuc := usecase.NewWarehouseUseCase(warehouses)
	luc := usecase.NewLocationUseCase(newMemLocations(), warehouses)

	w1, _ := wuc.Create(ctx, dto.WarehouseRequest{Name: "W1", Code: "W1"})
	w2, _ := wuc.Create(ctx, dto.WarehouseRequest{Name: "W2", Code: "W2"})
	loc, err := luc.Create(ctx, w1.ID, dto.LocationRequest{Code: "A"})
	require.NoError(t, err)

	_, err = luc.GetByID(ctx, w2.ID, loc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = luc.Create(ctx, "no-existe", dto.LocationRequest{Code: "A"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Lookups ──────────────────────────────────────────────────────────────────

func TestLookupWarehouses_ExcluyeDesactivadas(t *testing.T) {
	warehouses := newMemWarehouses()
	wuc := usecase.NewWarehouseUseCase(warehouses)
	lookups := usecase.NewLookupUseCase(newMemProducts(), warehouses, newMemLocations())

	w1, _ := wuc.Create(ctx, dto.WarehouseRequest{Name: "W1", Code: "W1"})
	w2, _ := wuc.Create(ctx, dto.WarehouseRequest{Name: "W2", Code: "W2"})
	require.NoError(t, wuc.SetActive(ctx, w2.ID, false))

	list, err := lookups.Warehouses(ctx, dto.LookupQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, w1.ID, list[0].ID)

	all := false
	list, err = lookups.Warehouses(ctx, dto.LookupQuery{ActiveOnly: &all})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLookupProducts_TopeDeResultados(t *testing.T) {
	products := newMemProducts()
	puc := usecase.NewProductUseCase(products)
	for i := 0; i < 3; i++ {
		_, err := puc.Create(ctx, dto.CreateProductRequest{Name: "P", SKU: string(rune('A' + i))})
		require.NoError(t, err)
	}
	lookups := usecase.NewLookupUseCase(products, newMemWarehouses(), newMemLocations())

	list, err := lookups.Products(ctx, dto.LookupQuery{Take: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
