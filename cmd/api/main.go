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

	"github.com/jhoicas/Gestion-api/internal/application/composition"
	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/session"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

// devJWTSecret solo fuera de producción (config.Load exige JWT_SECRET en producción).
const devJWTSecret = "dev-secret-change-me"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, se usa el secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Estado local persistido: Redis si está configurado, si no memoria.
	var store ports.KVStore
	if cfg.Redis.Addr != "" {
		rs, err := kv.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		store = rs
	} else {
		log.Warn().Msg("REDIS_ADDR vacío, estado local en memoria")
		store = kv.NewMemoryStore()
	}

	deps := composition.Deps{
		KV: store,
		Session: session.Config{
			JWT: session.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			},
			ProfileTimeout: cfg.Session.ProfileTimeout,
			TTL:            cfg.Session.TTL,
		},
		DefaultLanguage: cfg.App.DefaultLanguage,
		Policy: storeaccess.Policy{
			AdminIsGlobal:   cfg.Store.AdminIsGlobal,
			UnscopedVisible: cfg.Store.UnscopedVisible,
		},
		SplashDelay:  cfg.Session.SplashDelay,
		ChatInterval: cfg.Chat.PollInterval,
		Log:          log.Component("composition"),
	}

	switch cfg.DB.Driver {
	case "memory":
		b := memory.NewBackend()
		deps.Identities = b.Identities
		deps.Stores = b.Stores
		deps.Assignments = b.Assignments
		deps.Backend = &domaindata.Backend{
			Articles: b.Articles, Services: b.Services, Clients: b.Clients, Sales: b.Sales, Recorder: b,
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		stores := postgres.NewStoreRepository(pool)
		deps.Identities = postgres.NewIdentityRepository(pool)
		deps.Stores = stores
		deps.Assignments = stores
		deps.Backend = &domaindata.Backend{
			Articles: postgres.NewArticleRepository(pool),
			Services: postgres.NewServiceRepository(pool),
			Clients:  postgres.NewClientRepository(pool),
			Sales:    postgres.NewSaleRepository(pool),
			Recorder: postgres.NewTxRunner(pool),
		}
	}

	pending, err := domaindata.OpenPendingLog(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir cola de escrituras pendientes")
	}
	deps.Pending = pending

	providers := composition.Compose(deps)
	defer providers.Close()

	// Un backend caído no impide arrancar: la caché queda degradada y el
	// sincronizador reintenta.
	if err := providers.DomainData().Load(ctx); err != nil {
		log.Warn().Err(err).Msg("carga inicial de datos de dominio")
	}
	go providers.DomainData().Run(ctx, cfg.Sync.Interval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: 45 * time.Second, // cubre el long polling del chat
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.SwaggerFile,
		Path:     "docs",
		Title:    "Gestion API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Providers:        providers,
		Receipts:         infrapdf.NewReceiptGenerator(),
		JWTSecret:        cfg.JWT.Secret,
		TeamConversation: cfg.Chat.TeamConversation,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
