package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-service/internal/api/http"
	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/retention"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/internal/worker"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var store retention.RecordStore
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewUserRepository(pg.Pool)
	} else {
		store = repository.NewMemoryUserRepository()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var guard retention.ReminderGuard
	if cfg.Retention.ReviewDeduplicate {
		if redis != nil {
			guard = retention.NewRedisReminderGuard(redis.Client)
		} else {
			guard = retention.NewMemoryReminderGuard(nil)
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	location, err := cfg.Retention.Location()
	if err != nil {
		logger.Fatal("invalid retention timezone", zap.Error(err))
	}
	schedule := retention.ScheduleConfig{
		CleanupHour: cfg.Retention.CleanupHour,
		ReviewHour:  cfg.Retention.ReviewHour,
		Location:    location,
	}

	retentionService := retention.NewService(retention.Dependencies{
		Store: store,
		Policy: retention.NewPolicy(
			retention.WithInactivityThresholdDays(cfg.Retention.InactiveUsersDays),
			retention.WithPurgeThresholdDays(cfg.Retention.DeletedUsersDays),
		),
		Audit:      auditlog.New(cfg.Retention.AuditLogCapacity),
		Schedule:   schedule,
		Guard:      guard,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Contact:    cfg.Retention.ReviewContact,
	})

	scheduler := retention.NewScheduler(schedule, retentionService, retentionService.Notifier(), logger)
	stopScheduler, err := worker.StartRetentionScheduler(ctx, cfg.Retention.SchedulerEnabled, scheduler, logger)
	if err != nil {
		logger.Fatal("failed to start retention scheduler", zap.Error(err))
	}

	deps := map[string]handlers.Pinger{"postgres": nil, "redis": nil}
	if pg.Enabled() {
		deps["postgres"] = pg
	}
	if redis != nil {
		deps["redis"] = redis
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Retention:      handlers.NewRetentionHandler(retentionService),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)),
		Gatherer:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	stopScheduler()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
