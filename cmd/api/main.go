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

	httptransport "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/http"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/http/handlers"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/bootstrap"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/events"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/export"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/observability"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/ratelimit"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/service"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/worker"
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

	backends, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize backends", zap.Error(err))
	}
	defer backends.Close()

	dispatcher := events.NewInMemoryDispatcher()
	webhooks := worker.NewWebhookPool(cfg.Notification, logger)
	var queue service.WebhookQueue
	if webhooks != nil {
		queue = webhooks
	}
	notificationService := service.NewNotificationService(dispatcher, logger, queue)
	worker.StartNotificationWorker(ctx, notificationService, webhooks)

	reportService := service.NewReportService(service.ReportDependencies{
		Reports:    backends.Reports,
		Writer:     export.NewXLSXWriter(),
		Dispatcher: dispatcher,
		Location:   cfg.App.Location(),
		Logger:     logger,
	})

	app := httptransport.NewApp(httptransport.AppOptions{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
	}, logger)

	var createLimit fiber.Handler
	if backends.Redis != nil {
		limiter := ratelimit.NewRedisRateLimiter(backends.Redis.Client, cfg.App.Name+":ratelimit")
		createLimit = ratelimit.PerIP(limiter, "reports:create", ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.CreatePerMinute,
			RequestsPerHour:   cfg.RateLimit.CreatePerHour,
		}, logger)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backends.Pingers...),
		Users:       handlers.NewUsersHandler(),
		Reports:     handlers.NewReportsHandler(reportService),
		Gate:        auth.NewGate(backends.Verifier, backends.Roles, logger),
		CreateLimit: createLimit,
	})

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store", cfg.Store.Driver),
			zap.String("auth", cfg.Auth.Provider))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if webhooks != nil {
		webhooks.Stop()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
