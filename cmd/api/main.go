package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/source"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), os.DirFS(persistence.MigrationsDir), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var snapshotCache cache.SnapshotCache = cache.Nop{}
	if redis.Client != nil {
		snapshotCache = cache.NewRedisCache(redis.Client, cfg.Redis.CacheTTL())
	}

	src, err := source.New(cfg.Source, pg.PoolHandle())
	if err != nil {
		logger.Fatal("failed to build ticket source", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		Source:       src,
		Cache:        snapshotCache,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		FetchTimeout: cfg.Source.FetchTimeout(),
	})

	// The initial load runs in the background; readiness reports loading until it ends.
	go func() {
		_, _ = dashboardService.Load(ctx)
	}()

	scheduler, err := worker.StartReloadScheduler(ctx, cfg.Source.ReloadSchedule, func(ctx context.Context) error {
		_, err := dashboardService.Load(ctx)
		return err
	}, logger)
	if err != nil {
		logger.Fatal("failed to schedule reloads", zap.Error(err))
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, dashboardService),
		Dashboard: handlers.NewDashboardHandler(dashboardService, metrics, cfg.Export.Filename),
		PublicDir: cfg.App.PublicDir,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("source", src.Kind()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
