package postgres_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ims-api/internal/domain/repository"
	"github.com/jhoicas/ims-api/internal/infrastructure/postgres"
)

// emptyRows página sin filas.
type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(...any) error                            { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

type countRow int

func (n countRow) Scan(dest ...any) error {
	*dest[0].(*int) = int(n)
	return nil
}

// countingQuerier devuelve páginas vacías y responde `total` a los COUNT(*).
type countingQuerier struct {
	total  int
	counts []string
}

func (q *countingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *countingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return emptyRows{}, nil
}

func (q *countingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.counts = append(q.counts, sql)
	return countRow(q.total)
}

func TestList_PaginaPosteriorALaUltimaConservaElTotal(t *testing.T) {
	ctx := context.Background()
	past := repository.ListFilter{Limit: 10, Offset: 50}

	cases := []struct {
		table string
		list  func(q postgres.Querier) (int, error)
	}{
		{"products", func(q postgres.Querier) (int, error) {
			_, total, err := postgres.NewProductRepository(q).List(ctx, past)
			return total, err
		}},
		{"warehouses", func(q postgres.Querier) (int, error) {
			_, total, err := postgres.NewWarehouseRepository(q).List(ctx, past)
			return total, err
		}},
		{"locations", func(q postgres.Querier) (int, error) {
			_, total, err := postgres.NewLocationRepository(q).ListByWarehouse(ctx, "wh", past)
			return total, err
		}},
		{"users", func(q postgres.Querier) (int, error) {
			_, total, err := postgres.NewUserRepository(q).List(ctx, past)
			return total, err
		}},
		{"stock_transactions", func(q postgres.Querier) (int, error) {
			_, total, err := postgres.NewReportRepository(q).Movements(ctx, repository.MovementFilter{Limit: 10, Offset: 50})
			return total, err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			q := &countingQuerier{total: 42}
			total, err := tc.list(q)
			require.NoError(t, err)
			assert.Equal(t, 42, total)
			require.Len(t, q.counts, 1)
			assert.True(t, strings.Contains(q.counts[0], "COUNT(*) FROM "+tc.table), q.counts[0])
		})
	}
}

func TestList_PrimeraPaginaVaciaNoCuentaAparte(t *testing.T) {
	q := &countingQuerier{total: 42}
	_, total, err := postgres.NewProductRepository(q).List(context.Background(), repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, q.counts)
}
