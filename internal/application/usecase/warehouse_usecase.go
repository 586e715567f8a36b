package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega activa. El código se guarda en mayúsculas y es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	name, code, err := validateWarehouse(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCode(ctx, "", code); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      code,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza nombre y código.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, code, err := validateWarehouse(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCode(ctx, id, code); err != nil {
		return nil, err
	}
	warehouse.Name = name
	warehouse.Code = code
	warehouse.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// SetActive activa o desactiva una bodega.
func (uc *WarehouseUseCase) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, active)
}

// List lista bodegas con búsqueda, filtro de estado y paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, q dto.ListQuery) (dto.PagedResult[dto.WarehouseResponse], error) {
	page := q.PageRequest.Normalize(dto.DefaultPageSize, dto.MaxPageSize)
	list, total, err := uc.repo.List(ctx, listFilter(q.Search, q.IsActive, page.PageSize, page.Offset()))
	if err != nil {
		return dto.PagedResult[dto.WarehouseResponse]{}, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return dto.NewPagedResult(items, page, total), nil
}

func (uc *WarehouseUseCase) get(ctx context.Context, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return warehouse, nil
}

func (uc *WarehouseUseCase) checkCode(ctx context.Context, selfID, code string) error {
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: el código de bodega %s ya existe", domain.ErrDuplicate, code)
	}
	return nil
}

func validateWarehouse(in dto.WarehouseRequest) (name, code string, err error) {
	name = strings.TrimSpace(in.Name)
	code = NormalizeCode(in.Code)
	if name == "" || len(name) > 200 {
		return "", "", fmt.Errorf("%w: el nombre es obligatorio (máx. 200)", domain.ErrInvalidInput)
	}
	if code == "" || len(code) > 32 {
		return "", "", fmt.Errorf("%w: el código es obligatorio (máx. 32)", domain.ErrInvalidInput)
	}
	return name, code, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
