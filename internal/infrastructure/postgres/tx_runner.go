package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner, inventory.SnapshotRunner and auth.SetupTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ inventory.SnapshotRunner = (*TxRunner)(nil)
var _ auth.SetupTxRunner = (*TxRunner)(nil)

// snapshotTx todas las consultas ven la misma instantánea y no se puede escribir.
var snapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(inventory.TxRepos{
			Products:     NewProductRepository(tx),
			Warehouses:   NewWarehouseRepository(tx),
			Locations:    NewLocationRepository(tx),
			Transactions: NewStockTransactionRepository(tx),
			Levels:       NewStockLevelRepository(tx),
			Layers:       NewCostLayerRepository(tx),
		})
	})
}

// RunSetup igual que Run pero con repos de identidad y un advisory lock que serializa
// inicializaciones concurrentes.
func (r *TxRunner) RunSetup(ctx context.Context, fn func(users repository.UserRepository, roles repository.RoleRepository) error) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('ims-setup'))`); err != nil {
			return fmt.Errorf("setup lock: %w", err)
		}
		return fn(NewUserRepository(tx), NewRoleRepository(tx))
	})
}

// ReadSnapshot ejecuta fn con un ReportRepository sobre una transacción REPEATABLE READ
// de solo lectura.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error {
	return r.inTx(ctx, snapshotTx, func(tx pgx.Tx) error {
		return fn(NewReportRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
