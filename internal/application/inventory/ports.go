package inventory

import (
	"context"

	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products     repository.ProductRepository
	Warehouses   repository.WarehouseRepository
	Locations    repository.LocationRepository
	Transactions repository.StockTransactionRepository
	Levels       repository.StockLevelRepository
	Layers       repository.CostLayerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad del ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// SnapshotRunner ejecuta lecturas que deben ver una misma instantánea de la base
// (transacción de solo lectura REPEATABLE READ).
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error
}
