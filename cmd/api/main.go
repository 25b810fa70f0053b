package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/abastoflow/abastoflow/docs"
	appanalytics "github.com/abastoflow/abastoflow/internal/application/analytics"
	"github.com/abastoflow/abastoflow/internal/application/auth"
	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/provisioning"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
	"github.com/abastoflow/abastoflow/internal/infrastructure/cache"
	infrapdf "github.com/abastoflow/abastoflow/internal/infrastructure/pdf"
	"github.com/abastoflow/abastoflow/internal/infrastructure/postgres"
	httpRouter "github.com/abastoflow/abastoflow/internal/interfaces/http"
	"github.com/abastoflow/abastoflow/pkg/config"
	"github.com/abastoflow/abastoflow/pkg/logger"
)

// @title        AbastoFlow API
// @version      1.0
// @description  Gestión de comercios de abarrotes: ventas, compras, inventario y aprobación de cuentas.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	zl := log.Zerolog()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, zl); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	identityRepo := postgres.NewIdentityRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	requestRepo := postgres.NewWorkerRequestRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	revokedRepo := postgres.NewRevokedTokenRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// El rol no viaja en el token: las guardias leen el perfil a través de la caché.
	profiles := cache.NewProfileCache(profileRepo, cfg.Cache.MaxProfiles, cfg.Cache.ProfileTTL)
	defer profiles.Stop()
	// Logout revoca el jti en revoked_tokens; la caché solo evita ir a la base en cada petición.
	revoked := cache.NewRevokedTokens(revokedRepo, cfg.Cache.MaxRevoked, 0)
	defer revoked.Stop()

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go func() {
		ticker := time.NewTicker(cfg.Cache.RevokedPurgeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				n, err := revoked.Purge(purgeCtx)
				if err != nil {
					log.Error().Err(err).Msg("purga de tokens revocados")
					continue
				}
				if n > 0 {
					log.Info().Int64("borrados", n).Msg("purga de tokens revocados")
				}
			}
		}
	}()

	// Checkout en dos pasos (cabecera + renglones) con compensación; el actor sale del token.
	checkoutUC := checkout.NewUseCase(saleRepo, purchaseRepo, checkout.ContextActor, zl)

	authUC := auth.NewAuthUseCase(identityRepo, profiles, txRunner, revoked, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)
	profileUC := auth.NewProfileUseCase(profiles)
	provisioningUC := provisioning.NewUseCase(identityRepo, profiles, requestRepo, zl)

	productUC := usecase.NewProductUseCase(productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	saleUC := usecase.NewSaleUseCase(saleRepo, productRepo, profiles, checkoutUC, infrapdf.NewReceiptGenerator())
	purchaseUC := usecase.NewPurchaseUseCase(purchaseRepo, productRepo, checkoutUC)
	reportsUC := appanalytics.NewReportsUseCase(analyticsRepo, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	// Las funciones privilegiadas se invocan desde el navegador.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AbastoFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    profileUC,
		ProductUC:    productUC,
		CategoryUC:   categoryUC,
		SupplierUC:   supplierUC,
		SaleUC:       saleUC,
		PurchaseUC:   purchaseUC,
		ReportsUC:    reportsUC,
		Provisioning: provisioningUC,
		Profiles:     profiles,
		ProfileCache: profiles,
		Revoked:      revoked,
		JWTSecret:    cfg.JWT.Secret,
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
