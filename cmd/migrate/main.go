// migrate aplica las migraciones SQL embebidas sin levantar el servidor HTTP.
// Pensado para despliegues con DB_AUTO_MIGRATE=false.
//
// Uso: go run ./cmd/migrate [list]
// Con "list" solo imprime las versiones embebidas, sin conectarse a la base.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/ims-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ims-api/pkg/config"
	"github.com/jhoicas/ims-api/pkg/logger"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "list" {
		migrations, err := postgres.Migrations()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer migraciones: %v\n", err)
			os.Exit(1)
		}
		for _, m := range migrations {
			fmt.Println(m.Version)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrations")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.MigrateWithRetry(ctx, pool, cfg.DB.MigrateMaxAttempts, cfg.DB.MigrateDelay, func(attempt int, err error) {
		log.Warn().Err(err).Int("attempt", attempt).Msg("migración fallida, reintentando")
	})
	if err != nil {
		log.Error().Err(err).Msg("aplicar migraciones")
		pool.Close()
		os.Exit(1)
	}
	if len(applied) == 0 {
		log.Info().Msg("sin migraciones pendientes")
		return
	}
	log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
}
