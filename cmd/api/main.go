package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/cart"
	"github.com/jhoicas/Compras-api/internal/application/documents"
	"github.com/jhoicas/Compras-api/internal/application/orders"
	"github.com/jhoicas/Compras-api/internal/application/reports"
	"github.com/jhoicas/Compras-api/internal/application/usecase"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/infrastructure/excel"
	"github.com/jhoicas/Compras-api/internal/infrastructure/functions"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
	"github.com/jhoicas/Compras-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Compras-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Compras-api/internal/interfaces/http"
	"github.com/jhoicas/Compras-api/pkg/config"
	pkgjwt "github.com/jhoicas/Compras-api/pkg/jwt"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("base_currency", cfg.Currency.Base).
		Str("reference_currency", cfg.Currency.Reference).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New("compras")
	m.RegisterPool(pool)

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	historyRepo := postgres.NewPriceHistoryRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	orderRepos := postgres.OrderReposFor(pool)
	txRunner := postgres.NewTxRunner(pool)

	var cartRepo repository.CartRepository
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		cartRepo = infraredis.NewCartRepository(client, cfg.Redis.CartTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: los carritos se guardan en memoria")
		cartRepo = memory.NewCartRepository()
	}

	// Casos de uso
	currencies := calculation.Currencies{Base: cfg.Currency.Base, Reference: cfg.Currency.Reference}
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo, historyRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	totalsUC := calculation.NewUseCase(currencies)
	ordersUC := orders.NewUseCase(txRunner, orderRepos, supplierRepo, materialRepo, orders.Config{
		BaseCurrency:      cfg.Currency.Base,
		ReferenceCurrency: cfg.Currency.Reference,
	}, log).WithMetrics(m)
	cartUC := cart.NewUseCase(cartRepo, ordersUC, currencies, log)
	docsUC := documents.NewUseCase(ordersUC, supplierRepo, companyRepo, functions.NewClient(cfg.Functions, log), log)
	reportsUC := reports.NewUseCase(reportRepo, excel.NewExporter(), cfg.Currency.Reference)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		SupplierUC: supplierUC,
		MaterialUC: materialUC,
		Modules:    moduleSvc,
		TotalsUC:   totalsUC,
		OrdersUC:   ordersUC,
		CartUC:     cartUC,
		DocsUC:     docsUC,
		ReportsUC:  reportsUC,
		Tokens:     pkgjwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL()),
		Logger:     log,
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
