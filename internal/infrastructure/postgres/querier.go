package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// totalPastEnd completa el total de una lista paginada con COUNT(*) OVER(). Si la página
// pedida cae después de la última fila no vuelve ninguna fila que traiga el total, así
// que se cuenta aparte con el mismo filtro.
func totalPastEnd(ctx context.Context, q Querier, got, offset int, total *int, countQuery string, args ...any) error {
	if got > 0 || offset <= 0 {
		return nil
	}
	return q.QueryRow(ctx, countQuery, args...).Scan(total)
}
