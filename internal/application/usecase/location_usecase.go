package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ims-api/internal/application/dto"
	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// LocationUseCase casos de uso para ubicaciones, siempre anidadas bajo una bodega.
// Una ubicación consultada bajo otra bodega se trata como inexistente.
type LocationUseCase struct {
	repo          repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, warehouseRepo repository.WarehouseRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Create crea una ubicación activa en la bodega.
func (uc *LocationUseCase) Create(ctx context.Context, warehouseID string, in dto.LocationRequest) (*dto.LocationResponse, error) {
	if err := uc.requireWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	code, err := validateLocationCode(in.Code)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCode(ctx, warehouseID, "", code); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	location := &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Code:        code,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación de la bodega.
func (uc *LocationUseCase) GetByID(ctx context.Context, warehouseID, id string) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, warehouseID, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Update cambia el código de la ubicación.
func (uc *LocationUseCase) Update(ctx context.Context, warehouseID, id string, in dto.LocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, warehouseID, id)
	if err != nil {
		return nil, err
	}
	code, err := validateLocationCode(in.Code)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCode(ctx, warehouseID, id, code); err != nil {
		return nil, err
	}
	location.Code = code
	location.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// SetActive activa o desactiva una ubicación.
func (uc *LocationUseCase) SetActive(ctx context.Context, warehouseID, id string, active bool) error {
	if _, err := uc.get(ctx, warehouseID, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, active)
}

// List lista las ubicaciones de una bodega.
func (uc *LocationUseCase) List(ctx context.Context, warehouseID string, q dto.ListQuery) (dto.PagedResult[dto.LocationResponse], error) {
	if err := uc.requireWarehouse(ctx, warehouseID); err != nil {
		return dto.PagedResult[dto.LocationResponse]{}, err
	}
	page := q.PageRequest.Normalize(dto.DefaultPageSize, dto.MaxPageSize)
	list, total, err := uc.repo.ListByWarehouse(ctx, warehouseID, listFilter(q.Search, q.IsActive, page.PageSize, page.Offset()))
	if err != nil {
		return dto.PagedResult[dto.LocationResponse]{}, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return dto.NewPagedResult(items, page, total), nil
}

func (uc *LocationUseCase) requireWarehouse(ctx context.Context, warehouseID string) error {
	w, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	return nil
}

func (uc *LocationUseCase) get(ctx context.Context, warehouseID, id string) (*entity.Location, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.WarehouseID != warehouseID {
		return nil, domain.ErrNotFound
	}
	return location, nil
}

func (uc *LocationUseCase) checkCode(ctx context.Context, warehouseID, selfID, code string) error {
	existing, err := uc.repo.GetByCode(ctx, warehouseID, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: la ubicación %s ya existe en la bodega", domain.ErrDuplicate, code)
	}
	return nil
}

func validateLocationCode(raw string) (string, error) {
	code := NormalizeCode(raw)
	if code == "" || len(code) > 64 {
		return "", fmt.Errorf("%w: el código es obligatorio (máx. 64)", domain.ErrInvalidInput)
	}
	return code, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
