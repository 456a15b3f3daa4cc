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

	httptransport "github.com/spec-kit/support-agent/internal/api/http"
	"github.com/spec-kit/support-agent/internal/api/http/handlers"
	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/persistence"
	"github.com/spec-kit/support-agent/internal/policy"
	"github.com/spec-kit/support-agent/internal/polish"
	"github.com/spec-kit/support-agent/internal/provider"
	"github.com/spec-kit/support-agent/internal/provider/cache"
	"github.com/spec-kit/support-agent/internal/provider/coreapi"
	"github.com/spec-kit/support-agent/internal/provider/pgstore"
	"github.com/spec-kit/support-agent/internal/service"
	"github.com/spec-kit/support-agent/internal/templates"
	"github.com/spec-kit/support-agent/internal/worker"
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
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := templates.LoadOrBuiltin(cfg.Templates.Path)
	if err != nil {
		logger.Warn("template file unusable; using built-in templates",
			zap.String("path", cfg.Templates.Path), zap.Error(err))
	}
	if err := store.CheckCoverage(domain.TemplateKeys()); err != nil {
		logger.Fatal("template coverage", zap.Error(err))
	}
	logger.Info("templates loaded", zap.String("source", store.Source()))

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	core := buildProvider(cfg, pg, redis, logger)

	var polisher polish.Polisher
	var ollama *polish.Ollama
	if cfg.Polish.Enabled {
		ollama = polish.NewOllama(polish.OllamaConfig{
			BaseURL:     cfg.Polish.OllamaURL,
			Model:       cfg.Polish.Model,
			Temperature: cfg.Polish.Temperature,
			MaxWords:    cfg.Policy.MaxWords,
			Timeout:     cfg.Polish.Timeout(),
		})
		polisher = ollama
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Review))

	suggestService := service.NewSuggestService(service.SuggestDependencies{
		Engine: policy.NewEngine(policy.Config{
			RefundWindowDays: cfg.Policy.RefundWindowDays,
			Location:         cfg.Policy.Location(),
		}, nil),
		Renderer:   templates.NewRenderer(store),
		Provider:   core,
		Polisher:   polisher,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		MaxWords:   cfg.Policy.MaxWords,
	})

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, 0)
	}
	authMiddleware := auth.NewAuthMiddleware(auth.NewKeyVerifier(cfg.Auth.APIKey, cfg.Auth.APIKeyHash), tokens)
	if !authMiddleware.Enabled() {
		logger.Warn("no API credentials configured; /suggest is unauthenticated")
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthOpts := handlers.HealthOptions{
		ServiceName:   cfg.App.Name,
		Version:       cfg.App.Version,
		PolishEnabled: suggestService.PolishEnabled(),
		GenModel:      cfg.Polish.Model,
	}
	if ollama != nil {
		healthOpts.Ollama = ollama
	}
	healthOpts.Dependencies = []handlers.Dependency{{Name: "postgres"}, {Name: "redis"}}
	if pg.Enabled() {
		healthOpts.Dependencies[0].Pinger = pg
	}
	if redis.Cmdable() != nil {
		healthOpts.Dependencies[1].Pinger = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(healthOpts),
		Suggest:        handlers.NewSuggestHandler(suggestService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("version", cfg.App.Version))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// buildProvider selects the order/voucher backend and wraps it in the cache.
func buildProvider(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) provider.Provider {
	var core provider.Provider
	switch cfg.Provider.Kind {
	case "postgres":
		if !pg.Enabled() {
			logger.Fatal("CORE_PROVIDER=postgres requires POSTGRES_DSN")
		}
		core = pgstore.New(pg.PoolHandle())
	case "none":
		core = provider.Noop{}
	case "http", "":
		core = coreapi.New(cfg.Provider.BaseURL, cfg.Provider.Timeout())
	default:
		logger.Fatal("unknown CORE_PROVIDER", zap.String("provider", cfg.Provider.Kind))
	}
	logger.Info("core provider", zap.String("kind", cfg.Provider.Kind))

	if rdb := redis.Cmdable(); rdb != nil {
		return cache.New(core, rdb, cfg.Provider.CacheTTL(), logger)
	}
	return core
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
