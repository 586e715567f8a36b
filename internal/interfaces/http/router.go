package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ims-api/internal/application/analytics"
	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/application/inventory"
	"github.com/jhoicas/ims-api/internal/application/reports"
	"github.com/jhoicas/ims-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SetupUC     *auth.SetupUseCase
	UserAdminUC *auth.UserAdminUseCase
	RoleAdminUC *auth.RoleAdminUseCase

	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	LocationUC  *usecase.LocationUseCase
	LookupUC    *usecase.LookupUseCase

	LedgerUC     *inventory.LedgerUseCase
	StockQueryUC *inventory.StockQueryUseCase

	ReportUC    *reports.ReportUseCase
	ExportUC    *reports.ExportUseCase
	DashboardUC *appanalytics.DashboardUseCase

	// HealthChecks chequeos de /health/ready por nombre de dependencia.
	HealthChecks map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.HealthChecks)
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Setup (anónimo, protegido por X-Setup-Key)
	setupHandler := NewSetupHandler(deps.SetupUC)
	api.Post("/setup/initialize", setupHandler.Initialize)

	// Rutas protegidas (requieren Bearer Token con sesión vigente)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)

	read := RequirePolicy(PolicyInventoryRead)
	write := RequirePolicy(PolicyInventoryWrite)
	byID := UUIDParams("id")
	byWarehouse := UUIDParams("warehouseId")
	byLocation := UUIDParams("warehouseId", "id")
	idFilters := UUIDQuery("warehouseId", "productId")

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockQueryUC)
	products.Get("/", read, productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/by-barcode/:barcode", read, productHandler.GetByBarcode)
	products.Get("/:id", read, byID, productHandler.GetByID)
	products.Get("/:id/timeline", read, byID, idFilters, productHandler.Timeline)
	products.Put("/:id", write, byID, productHandler.Update)
	products.Patch("/:id/activate", write, byID, productHandler.Activate)
	products.Patch("/:id/deactivate", write, byID, productHandler.Deactivate)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", read, warehouseHandler.List)
	warehouses.Post("/", write, warehouseHandler.Create)
	warehouses.Get("/:id", read, byID, warehouseHandler.GetByID)
	warehouses.Put("/:id", write, byID, warehouseHandler.Update)
	warehouses.Patch("/:id/activate", write, byID, warehouseHandler.Activate)
	warehouses.Patch("/:id/deactivate", write, byID, warehouseHandler.Deactivate)

	// Locations (anidadas en la bodega)
	locations := warehouses.Group("/:warehouseId/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", read, byWarehouse, locationHandler.List)
	locations.Post("/", write, byWarehouse, locationHandler.Create)
	locations.Get("/:id", read, byLocation, locationHandler.GetByID)
	locations.Put("/:id", write, byLocation, locationHandler.Update)
	locations.Patch("/:id/activate", write, byLocation, locationHandler.Activate)
	locations.Patch("/:id/deactivate", write, byLocation, locationHandler.Deactivate)

	// Inventory (ledger)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.StockQueryUC)
	inv.Post("/receive", write, inventoryHandler.Receive)
	inv.Post("/issue", write, inventoryHandler.Issue)
	inv.Post("/transfer", write, inventoryHandler.Transfer)
	inv.Post("/adjust", write, inventoryHandler.Adjust)
	inv.Get("/stock-overview", write, idFilters, inventoryHandler.StockOverview)
	inv.Get("/reconcile", RequirePolicy(PolicyAdminOnly), inventoryHandler.Reconcile)

	// Reports
	rep := protected.Group("/reports", RequirePolicy(PolicyReportsRead), idFilters)
	reportHandler := NewReportHandler(deps.ReportUC, deps.ExportUC)
	rep.Get("/stock-movements", reportHandler.StockMovements)
	rep.Get("/low-stock", reportHandler.LowStock)
	rep.Get("/dead-stock", reportHandler.DeadStock)
	rep.Get("/stock-valuation", reportHandler.StockValuation)
	rep.Get("/:report/export", reportHandler.Export)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", RequirePolicy(PolicyDashboardRead), dashboardHandler.GetSummary)

	// Lookups
	lookups := protected.Group("/lookups", read)
	lookupHandler := NewLookupHandler(deps.LookupUC)
	lookups.Get("/products", lookupHandler.Products)
	lookups.Get("/warehouses", lookupHandler.Warehouses)
	lookups.Get("/warehouses/:warehouseId/locations", byWarehouse, lookupHandler.Locations)

	// Admin
	users := protected.Group("/admin/users", RequirePolicy(PolicyUserManagement))
	userHandler := NewUserAdminHandler(deps.UserAdminUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", byID, userHandler.Get)
	users.Post("/:id/roles", byID, userHandler.AssignRole)
	users.Delete("/:id/roles/:role", byID, userHandler.RemoveRole)
	users.Post("/:id/reset-password", byID, userHandler.ResetPassword)
	users.Patch("/:id/activate", byID, userHandler.Activate)
	users.Patch("/:id/deactivate", byID, userHandler.Deactivate)

	roles := protected.Group("/admin/roles", RequirePolicy(PolicyAdminOnly))
	roleHandler := NewRoleAdminHandler(deps.RoleAdminUC)
	roles.Get("/", roleHandler.List)
	roles.Post("/", roleHandler.Create)
	roles.Delete("/:name", roleHandler.Delete)
}
