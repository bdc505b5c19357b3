package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cs-pendencias/pendencia-service/internal/api/http"
	"github.com/cs-pendencias/pendencia-service/internal/api/http/handlers"
	"github.com/cs-pendencias/pendencia-service/internal/auth"
	"github.com/cs-pendencias/pendencia-service/internal/cache"
	"github.com/cs-pendencias/pendencia-service/internal/config"
	"github.com/cs-pendencias/pendencia-service/internal/events"
	"github.com/cs-pendencias/pendencia-service/internal/integration/trello"
	"github.com/cs-pendencias/pendencia-service/internal/integration/whatsapp"
	"github.com/cs-pendencias/pendencia-service/internal/observability"
	"github.com/cs-pendencias/pendencia-service/internal/persistence"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	"github.com/cs-pendencias/pendencia-service/internal/service"
	"github.com/cs-pendencias/pendencia-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger = logger.With(zap.String("service", cfg.App.Name))
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := repository.NewStore(pg.PoolHandle())

	lookupCache := cache.NewLookupCache(
		cache.NewRedisStore(redis.Client),
		store.Lookups,
		cfg.Cache.TTL(),
		cfg.Cache.Prefix,
		logger,
	)

	dispatcher := events.NewInMemoryDispatcher(logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(store.Usuarios, tokens, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewAuthMiddleware(tokens, store.Usuarios)

	pendenciaService := service.NewPendenciaService(service.PendenciaDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	fluxoService := service.NewFluxoService(service.FluxoDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	dashboardService := service.NewDashboardService(store)
	lookupService := service.NewLookupService(store, lookupCache)
	trelloService := service.NewTrelloService(store, trello.NewClient(cfg.Trello, logger))

	relay := whatsapp.NewClient(cfg.WhatsApp, logger)
	notificationService := service.NewNotificationService(dispatcher, store, relay, logger)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Pendencias:     handlers.NewPendenciasHandler(pendenciaService),
		Fluxo:          handlers.NewFluxoHandler(fluxoService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Lookups:        handlers.NewLookupsHandler(lookupService),
		Trello:         handlers.NewTrelloHandler(trelloService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
