package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ims-api/internal/domain"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones dentro de una bodega.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, warehouse_id, code, is_active, created_at, updated_at`

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, warehouse_id, code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, l.ID, l.WarehouseID, l.Code, l.IsActive, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

// GetByCode busca el código dentro de la bodega.
func (r *LocationRepo) GetByCode(ctx context.Context, warehouseID, code string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE warehouse_id = $1 AND code = $2`, warehouseID, code)
}

func (r *LocationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID, &l.WarehouseID, &l.Code, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx, `UPDATE locations SET code = $2, updated_at = $3 WHERE id = $1`, l.ID, l.Code, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *LocationRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.q.Exec(ctx, `UPDATE locations SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set location active: %w", err)
	}
	return nil
}

func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID string, f repository.ListFilter) ([]*entity.Location, int, error) {
	query := `
		SELECT ` + locationColumns + `, COUNT(*) OVER()
		FROM locations` + locationListWhere + `
		ORDER BY code
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, warehouseID, f.Search, f.IsActive, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Location
		total int
	)
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Code, &l.IsActive, &l.CreatedAt, &l.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	if err := totalPastEnd(ctx, r.q, len(list), f.Offset, &total,
		`SELECT COUNT(*) FROM locations`+locationListWhere, warehouseID, f.Search, f.IsActive); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}
	return list, total, nil
}

const locationListWhere = `
		WHERE warehouse_id = $1
		  AND ($2::text = '' OR code ILIKE '%' || $2 || '%')
		  AND ($3::boolean IS NULL OR is_active = $3)`
