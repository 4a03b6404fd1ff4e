// Package main is the entrypoint for the shopdash server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/shopdash/internal/api"
	"github.com/kiranshivaraju/shopdash/internal/api/handler"
	mw "github.com/kiranshivaraju/shopdash/internal/api/middleware"
	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/board"
	"github.com/kiranshivaraju/shopdash/internal/cache"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/internal/config"
	"github.com/kiranshivaraju/shopdash/internal/dashboard"
	"github.com/kiranshivaraju/shopdash/internal/forecast"
	"github.com/kiranshivaraju/shopdash/internal/notify"
	"github.com/kiranshivaraju/shopdash/internal/purchase"
	"github.com/kiranshivaraju/shopdash/internal/shopapi"
	"github.com/kiranshivaraju/shopdash/internal/store"
	"github.com/kiranshivaraju/shopdash/internal/upload"
	"github.com/kiranshivaraju/shopdash/internal/web"
	"github.com/kiranshivaraju/shopdash/internal/workcenter"
)

const (
	shutdownTimeout    = 30 * time.Second
	healthCheckTimeout = 5 * time.Second
	notificationBuffer = 50
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"shop_api", cfg.ShopAPI.BaseURL,
		"env", cfg.Server.Env,
		"journal", cfg.JournalEnabled(),
		"rate_limit", cfg.RateLimitEnabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Run journal (optional)
	var journal store.Journal = store.NopJournal{}
	if cfg.JournalEnabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		slog.Info("database connected")

		if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
		journal = store.NewPostgresStore(pool)
	}

	// 3. Redis for rate limiting (optional)
	var limiterCache cache.Cache
	if cfg.RateLimitEnabled() {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		limiterCache = redisCache
	}

	// 4. Shop backend, charts and notifications
	client := shopapi.NewHTTPClient(cfg.ShopAPI.BaseURL, cfg.ShopAPI.Timeout)
	renderer := chart.NewRenderer(chart.WithAssetsHost(cfg.Charts.AssetsHost))
	charts := chart.NewBoard(renderer)
	hub := notify.NewHub(notificationBuffer)
	notifier := notify.Multi{notify.NewLogNotifier(nil), hub}

	// 5. Page controllers
	agg := dashboard.New(client, charts,
		dashboard.WithInterval(cfg.Refresh.DashboardInterval),
		dashboard.WithRecorder(journal),
	)
	fc := forecast.New(client, charts, notifier,
		forecast.WithInterval(cfg.Refresh.ForecastInterval),
		forecast.WithRecorder(journal),
	)
	centers := workcenter.New(client, renderer)
	orders := purchase.New(client, renderer)
	sched := board.New(client, journal)
	uploader := upload.New(client, agg, notifier)

	pages, err := web.NewPages(web.Sources{
		Dashboard:   agg,
		Forecast:    fc,
		WorkCenters: centers,
		Purchase:    orders,
		Scheduler:   sched,
		Charts:      charts,
		Uploads:     uploader,
	}, web.WithDashboardRefresh(cfg.Refresh.DashboardInterval))
	if err != nil {
		return fmt.Errorf("load page templates: %w", err)
	}

	agg.Start(ctx)
	defer agg.Stop()
	fc.Start(ctx)
	defer fc.Stop()

	// 6. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(limiterCache, cfg.RateLimit.PerMinute),

		DashboardPage:   pages.Dashboard,
		ForecastPage:    pages.Forecast,
		WorkCentersPage: pages.WorkCenters,
		SchedulingPage:  pages.Scheduling,
		PurchasePage:    pages.Purchase,

		HealthHandler: healthHandler(client, journal, limiterCache),

		DashboardHandler:   handler.NewDashboardHandler(agg),
		DashboardRefresh:   handler.NewDashboardRefreshHandler(agg),
		ChartHandler:       handler.NewChartHandler(charts),
		UploadHandler:      handler.NewUploadHandler(uploader),
		UploadStateHandler: handler.NewUploadStateHandler(uploader),
		ForecastHandler:    handler.NewForecastHandler(fc),
		ForecastRefresh:    handler.NewForecastRefreshHandler(fc),
		WorkCentersHandler: handler.NewWorkCentersHandler(centers),
		PurchaseHandler:    handler.NewPurchaseHandler(orders),

		ScheduleEvents: handler.NewScheduleEventsHandler(sched),
		ScheduleMove:   handler.NewScheduleMoveHandler(sched),
		ScheduleJobs:   handler.NewUnscheduledHandler(sched),
		ScheduleDrop:   handler.NewDropHandler(time.Local),
		ScheduleOpen:   handler.NewOpenEventHandler(time.Local),
		ScheduleSave:   handler.NewSaveDialogHandler(sched),

		RunsHandler:          handler.NewRunsHandler(journal),
		RunHandler:           handler.NewRunHandler(journal),
		ReschedulesHandler:   handler.NewReschedulesHandler(journal),
		NotificationsHandler: handler.NewNotificationsHandler(hub),

		EventStream: hub.ServeSSE,
		EventSocket: hub.ServeWebSocket,
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server. No write timeout: SSE and websocket streams stay open.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

type readinessChecker interface {
	Ready(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks the shop backend, the journal and, when configured,
// the rate limit cache.
func healthHandler(backend readinessChecker, journal pinger, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		checks := map[string]string{
			"shop_api": "ok",
			"journal":  "ok",
			"cache":    "disabled",
		}

		if err := backend.Ready(ctx); err != nil {
			checks["shop_api"] = "degraded"
		}
		if err := journal.Ping(ctx); err != nil {
			checks["journal"] = "degraded"
		}
		if c != nil {
			checks["cache"] = "ok"
			if err := c.Ping(ctx); err != nil {
				checks["cache"] = "degraded"
			}
		}

		for _, status := range checks {
			if status == "degraded" {
				response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
					"One or more services degraded", checks)
				return
			}
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
