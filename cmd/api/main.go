package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/moda-retail/internal/application/analytics"
	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/application/inventory"
	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/application/sales"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	infraaudit "github.com/jhoicas/moda-retail/internal/infrastructure/audit"
	"github.com/jhoicas/moda-retail/internal/infrastructure/events"
	"github.com/jhoicas/moda-retail/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/moda-retail/internal/infrastructure/pdf"
	"github.com/jhoicas/moda-retail/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/moda-retail/internal/infrastructure/redis"
	infrasync "github.com/jhoicas/moda-retail/internal/infrastructure/sync"
	httpRouter "github.com/jhoicas/moda-retail/internal/interfaces/http"
	"github.com/jhoicas/moda-retail/pkg/config"
	"github.com/jhoicas/moda-retail/pkg/logger"
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
		Str("app", cfg.App.Name).
		Str("persistence", cfg.Sync.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := memory.New()

	// Persistencia durable: PostgreSQL recibe snapshots y auditoría; el store en memoria es la fuente de verdad.
	var (
		sink       infrasync.Sink = infrasync.NewLogSink(log)
		auditSinks                = []ports.Auditor{infraaudit.NewZerolog(log)}
	)
	if cfg.Sync.Driver == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema PostgreSQL")
		}
		snapshots := postgres.NewSnapshotRepository(pool)
		n, err := snapshots.LoadAll(ctx, store.Hydrate)
		if err != nil {
			log.Fatal().Err(err).Msg("hidratar store en memoria")
		}
		auditRepo := postgres.NewAuditRepository(pool)
		audited, err := auditRepo.LoadAll(ctx, store.Hydrate)
		if err != nil {
			log.Fatal().Err(err).Msg("hidratar log de auditoría")
		}
		log.Info().Int("rows", n).Int("audit_events", audited).Msg("store hidratado desde PostgreSQL")
		sink = snapshots
		auditSinks = append(auditSinks, auditRepo)
	}

	queue := infrasync.NewQueue(sink, infrasync.Config{
		Workers:     cfg.Sync.Workers,
		QueueSize:   cfg.Sync.QueueSize,
		MaxAttempts: cfg.Sync.MaxAttempts,
		Timeout:     cfg.Sync.Timeout,
		Backoff:     cfg.Sync.Backoff,
	}, log)

	// Eventos: bus en proceso y, si hay Redis, un canal por tenant.
	bus := events.NewBus(log)
	bus.Subscribe(inventory.EventStockNegative, func(_ context.Context, ev entity.Event) {
		log.Warn().Str("company_id", ev.CompanyID).Str("balance", ev.EntityID).Msg("saldo negativo: revisar reposición")
	})
	bus.Subscribe(events.AllKinds, func(_ context.Context, ev entity.Event) {
		log.Debug().Str("kind", ev.Kind).Str("entity_id", ev.EntityID).Msg("evento")
	})
	var publisher ports.EventPublisher = bus
	if cfg.Redis.Enabled() {
		rp := infraredis.NewPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rp.Close()
		if err := rp.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible al iniciar")
		}
		publisher = events.Fanout{bus, rp}
	}

	auditor := infraaudit.NewComposite(log, store, auditSinks...)
	collab := ports.Collaborators{
		Audit:  auditor,
		Events: publisher,
		Sync:   queue,
		Log:    log,
		Now:    ports.SystemClock,
	}
	az := authz.NewAuthorizer(store, auditor, log, ports.SystemClock)
	platform := usecase.PlatformBrand{
		Name:           cfg.Brand.Name,
		LogoURL:        cfg.Brand.LogoURL,
		PrimaryColor:   cfg.Brand.PrimaryColor,
		SecondaryColor: cfg.Brand.SecondaryColor,
	}

	authUC := auth.NewAuthUseCase(store, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Moda Retail API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sync": queue.Status()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		Authorizer:       az,
		CompanyUC:        usecase.NewCompanyUseCase(store, az, collab),
		ModuleService:    usecase.NewModuleService(store, az, ports.SystemClock),
		BrandingUC:       usecase.NewBrandingUseCase(store, az, collab, platform),
		UserUC:           usecase.NewUserUseCase(store, az, collab),
		Pricing:          pricing.NewService(store, az, collab),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, az, collab),
		Sales:            sales.NewUseCase(store, az, collab),
		Cash:             cash.NewUseCase(store, az, collab, infrapdf.NewCashReportGenerator(), platform),
		Dashboard:        analytics.NewDashboardUseCase(store, az, collab),
		Admin:            applicensing.NewAdminService(store, collab),
		Sync:             queue,
		JWTSecret:        cfg.JWT.Secret,
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
	// La cola se vacía después del servidor: no entran nuevas mutaciones.
	if err := queue.Close(shutdownCtx); err != nil {
		st := queue.Status()
		log.Error().Err(err).Int("pending", st.Pending).Int("failed", st.Failed).Msg("cola de sincronización sin vaciar")
	}

	log.Info().Msg("aplicación detenida")
}
