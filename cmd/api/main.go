package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/ims-api/internal/application/analytics"
	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/application/reports"
	"github.com/jhoicas/ims-api/internal/application/usecase"
	"github.com/jhoicas/ims-api/internal/infrastructure/cache"
	"github.com/jhoicas/ims-api/internal/infrastructure/export"
	"github.com/jhoicas/ims-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ims-api/internal/interfaces/http"
	"github.com/jhoicas/ims-api/pkg/config"
	"github.com/jhoicas/ims-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Cantidades y costos viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		dbLog := log.Named("migrations")
		applied, err := postgres.MigrateWithRetry(ctx, pool, cfg.DB.MigrateMaxAttempts, cfg.DB.MigrateDelay, func(attempt int, err error) {
			dbLog.Warn().Err(err).Int("attempt", attempt).Msg("migración fallida, reintentando")
		})
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		dbLog.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	healthChecks := map[string]httpRouter.HealthCheck{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, pool) },
	}

	// Caché de sesiones opcional: sin Redis cada request valida la sesión contra la DB.
	var sessions auth.SessionCache
	if cfg.Redis.Enabled() {
		rdb := cache.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := cache.Ping(ctx, rdb); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; se reintentará en cada request")
		}
		sessions = cache.NewRedisSessionCache(rdb, cfg.Redis.SessionTTL)
		healthChecks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx, rdb) }
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
	})
	reportUC := reports.NewReportUseCase(reportRepo)
	exportUC := reports.NewExportUseCase(reportUC,
		export.NewXLSXExporter(),
		export.NewPDFExporter(cfg.App.Name),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Named("http"), cfg.App.IsDevelopment()),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:  strings.Join(cfg.HTTP.AllowedOrigins, ","),
			AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Setup-Key",
			ExposeHeaders: "Content-Disposition",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		SetupUC:      auth.NewSetupUseCase(txRunner, cfg.Setup.Key),
		UserAdminUC:  auth.NewUserAdminUseCase(userRepo, roleRepo, sessions).WithLogger(log.Named("auth")),
		RoleAdminUC:  auth.NewRoleAdminUseCase(roleRepo),
		ProductUC:    usecase.NewProductUseCase(productRepo),
		WarehouseUC:  usecase.NewWarehouseUseCase(warehouseRepo),
		LocationUC:   usecase.NewLocationUseCase(locationRepo, warehouseRepo),
		LookupUC:     usecase.NewLookupUseCase(productRepo, warehouseRepo, locationRepo),
		LedgerUC:     inventory.NewLedgerUseCase(txRunner),
		StockQueryUC: inventory.NewStockQueryUseCase(reportRepo, productRepo).WithSnapshot(txRunner),
		ReportUC:     reportUC,
		ExportUC:     exportUC,
		DashboardUC:  appanalytics.NewDashboardUseCase(dashboardRepo),
		HealthChecks: healthChecks,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
