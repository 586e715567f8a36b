package usecase

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
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Costo y existencias se manejan vía el ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto activo. AverageCost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, sku, barcode, err := validateProduct(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, "", sku, barcode); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		SKU:           sku,
		Barcode:       barcode,
		MinStockLevel: in.MinStockLevel,
		AverageCost:   decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByBarcode obtiene un producto por código de barras.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: código de barras vacío", domain.ErrInvalidInput)
	}
	product, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, SKU, código de barras y mínimo. No toca costo ni existencias.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, sku, barcode, err := validateProduct(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, id, sku, barcode); err != nil {
		return nil, err
	}
	product.Name = name
	product.SKU = sku
	product.Barcode = barcode
	product.MinStockLevel = in.MinStockLevel
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetActive activa o desactiva un producto (no hay borrado).
func (uc *ProductUseCase) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, active)
}

// List lista productos con búsqueda, filtro de estado y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ListQuery) (dto.PagedResult[dto.ProductResponse], error) {
	page := q.PageRequest.Normalize(dto.DefaultPageSize, dto.MaxPageSize)
	list, total, err := uc.repo.List(ctx, listFilter(q.Search, q.IsActive, page.PageSize, page.Offset()))
	if err != nil {
		return dto.PagedResult[dto.ProductResponse]{}, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return dto.NewPagedResult(items, page, total), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// checkUnique verifica SKU y código de barras contra otros productos (excluye selfID).
// La restricción UNIQUE de la tabla sigue siendo la garantía final.
func (uc *ProductUseCase) checkUnique(ctx context.Context, selfID, sku, barcode string) error {
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrDuplicate, sku)
	}
	if barcode == "" {
		return nil
	}
	existing, err = uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: el código de barras %s ya existe", domain.ErrDuplicate, barcode)
	}
	return nil
}

func validateProduct(in dto.CreateProductRequest) (name, sku, barcode string, err error) {
	name = strings.TrimSpace(in.Name)
	sku = NormalizeCode(in.SKU)
	barcode = strings.TrimSpace(in.Barcode)
	switch {
	case name == "" || len(name) > 200:
		err = fmt.Errorf("%w: el nombre es obligatorio (máx. 200)", domain.ErrInvalidInput)
	case sku == "" || len(sku) > 64:
		err = fmt.Errorf("%w: el SKU es obligatorio (máx. 64)", domain.ErrInvalidInput)
	case len(barcode) > 64:
		err = fmt.Errorf("%w: código de barras demasiado largo", domain.ErrInvalidInput)
	case in.MinStockLevel.IsNegative():
		err = fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	case !inventory.FitsQuantity(in.MinStockLevel):
		err = fmt.Errorf("%w: el stock mínimo admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	return name, sku, barcode, err
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		MinStockLevel: p.MinStockLevel,
		AverageCost:   p.AverageCost,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
