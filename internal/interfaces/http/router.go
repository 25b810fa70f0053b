package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/abastoflow/abastoflow/internal/application/analytics"
	"github.com/abastoflow/abastoflow/internal/application/auth"
	"github.com/abastoflow/abastoflow/internal/application/provisioning"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
	"github.com/abastoflow/abastoflow/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProfileUC    *auth.ProfileUseCase
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	SaleUC       *usecase.SaleUseCase
	PurchaseUC   *usecase.PurchaseUseCase
	ReportsUC    *appanalytics.ReportsUseCase
	Provisioning *provisioning.UseCase
	// Profiles lectura de perfiles para las guardias (normalmente la caché).
	Profiles     ProfileLookup
	ProfileCache ProfileInvalidator
	Revoked      RevocationChecker
	JWTSecret    string
}

// Router registra las rutas de la API.
//
// Cada grupo protegido se asocia a la sección del cliente que sirve y pasa por la misma
// tabla de guardias: un cajero solo llega a ventas, perfil y ajustes; un admin solo al panel.
func Router(app *fiber.App, deps RouterDeps) {
	authn := AuthMiddleware(deps.JWTSecret, deps.Revoked)
	guard := func(path string) fiber.Handler { return RequireAccess(deps.Profiles, path) }

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/admin/login", authHandler.AdminLogin)
	authGroup.Post("/logout", authn, authHandler.Logout)
	authGroup.Get("/me", authn, authHandler.Me)
	authGroup.Put("/password", authn, authHandler.ChangePassword)

	// Navegación (token opcional)
	navHandler := NewNavigationHandler(deps.Profiles)
	api.Get("/navigation", OptionalAuth(deps.JWTSecret, deps.Revoked), navHandler.Resolve)

	// Perfil propio: lectura para cualquier sesión (la página de espera la necesita), edición desde ajustes.
	profileHandler := NewProfileHandler(deps.ProfileUC)
	api.Get("/profile", authn, profileHandler.GetOwn)
	api.Put("/profile", authn, guard(access.PathProfile), profileHandler.UpdateOwn)

	// Productos: el cajero lee el catálogo desde ventas; las escrituras son de inventario.
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC)
	products := api.Group("/products", authn)
	products.Get("/", guard(access.PathSales), productHandler.List)
	products.Get("/low-stock", guard(access.PathInventory), productHandler.LowStock)
	products.Get("/:id", guard(access.PathSales), productHandler.GetByID)
	products.Post("/", guard(access.PathInventory), productHandler.Create)
	products.Put("/:id", guard(access.PathInventory), productHandler.Update)
	products.Delete("/:id", guard(access.PathInventory), productHandler.Delete)

	categories := api.Group("/categories", authn)
	categories.Get("/", guard(access.PathSales), productHandler.ListCategories)
	categories.Post("/", guard(access.PathInventory), productHandler.CreateCategory)
	categories.Delete("/:id", guard(access.PathInventory), productHandler.DeleteCategory)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := api.Group("/suppliers", authn, guard(access.PathSuppliers))
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Punto de venta y ventas
	saleHandler := NewSaleHandler(deps.SaleUC)
	api.Post("/pos/checkout", authn, guard(access.PathSales), saleHandler.Checkout)
	sales := api.Group("/sales", authn, guard(access.PathSales))
	sales.Post("/", saleHandler.CreateHeader)
	sales.Post("/items", saleHandler.CreateItems)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Delete("/:id", saleHandler.Delete)

	// Compras
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases := api.Group("/purchases", authn, guard(access.PathPurchases))
	purchases.Post("/register", purchaseHandler.Register)
	purchases.Post("/", purchaseHandler.CreateHeader)
	purchases.Post("/items", purchaseHandler.CreateItems)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Reportes
	reportsHandler := NewReportsHandler(deps.ReportsUC)
	reports := api.Group("/reports", authn, guard(access.PathReports))
	reports.Get("/", reportsHandler.GetReports)
	reports.Get("/daily-profit", reportsHandler.GetDailyProfit)

	// Equipo: solicitudes de cajero del dueño
	workerHandler := NewWorkerHandler(deps.Provisioning, deps.ProfileCache)
	team := api.Group("/worker-requests", authn, guard(access.PathTeam))
	team.Post("/", workerHandler.CreateRequest)
	team.Get("/", workerHandler.ListOwn)

	// Administración
	admin := api.Group("/admin", authn, guard(access.PathAdminDashboard))
	admin.Get("/profiles", profileHandler.List)
	admin.Put("/profiles/:id/role", profileHandler.ChangeRole)
	admin.Get("/worker-requests", workerHandler.ListPending)
	admin.Post("/worker-requests/:id/approve", workerHandler.Approve)
	admin.Post("/worker-requests/:id/reject", workerHandler.Reject)
	admin.Delete("/users/:id", workerHandler.DeleteUser)

	// Funciones privilegiadas; el caso de uso exige rol admin.
	functions := app.Group("/functions/v1", authn)
	functions.Post("/create-worker", workerHandler.CreateWorkerFunction)
	functions.Post("/delete-user-and-data", workerHandler.DeleteUserFunction)
}
