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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Los roles viven en user_roles y se cargan con array_agg.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.is_active, u.security_stamp, u.created_at, u.updated_at,
	COALESCE((SELECT array_agg(ur.role_name ORDER BY ur.role_name) FROM user_roles ur WHERE ur.user_id = u.id), '{}')`

// Create persiste el usuario y sus roles en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		WITH u AS (
			INSERT INTO users (id, email, password_hash, is_active, security_stamp, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		)
		INSERT INTO user_roles (user_id, role_name)
		SELECT u.id, role FROM u, unnest($8::text[]) AS role`
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsActive, user.SecurityStamp, user.CreatedAt, user.UpdatedAt, roles,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID con sus roles.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.SecurityStamp, &u.CreatedAt, &u.UpdatedAt, &u.Roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// List lista usuarios por email con paginación.
func (r *UserRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	query := `
		SELECT ` + userColumns + `, COUNT(*) OVER()
		FROM users u` + userListWhere + `
		ORDER BY u.email
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Search, f.IsActive, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.User
		total int
	)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.SecurityStamp, &u.CreatedAt, &u.UpdatedAt,
			&u.Roles, &total); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	if err := totalPastEnd(ctx, r.q, len(list), f.Offset, &total,
		`SELECT COUNT(*) FROM users u`+userListWhere, f.Search, f.IsActive); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return list, total, nil
}

const userListWhere = `
		WHERE ($1::text = '' OR u.email ILIKE '%' || $1 || '%')
		  AND ($2::boolean IS NULL OR u.is_active = $2)`

// Count total de usuarios (el setup solo corre con cero).
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UpdatePassword reemplaza hash y security stamp.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash, stamp string) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, security_stamp = $3, updated_at = now() WHERE id = $1`,
		id, passwordHash, stamp)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

// SetActive activa o desactiva y rota el stamp.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool, stamp string) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET is_active = $2, security_stamp = $3, updated_at = now() WHERE id = $1`,
		id, active, stamp)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}

// AddRole asigna el rol y rota el stamp.
func (r *UserRepo) AddRole(ctx context.Context, userID, role, stamp string) error {
	query := `
		WITH ins AS (
			INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		)
		UPDATE users SET security_stamp = $3, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, userID, role, stamp); err != nil {
		return fmt.Errorf("add user role: %w", err)
	}
	return nil
}

// RemoveRole quita el rol y rota el stamp.
func (r *UserRepo) RemoveRole(ctx context.Context, userID, role, stamp string) error {
	query := `
		WITH del AS (
			DELETE FROM user_roles WHERE user_id = $1 AND role_name = $2
		)
		UPDATE users SET security_stamp = $3, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, userID, role, stamp); err != nil {
		return fmt.Errorf("remove user role: %w", err)
	}
	return nil
}
