// Package main is the entrypoint for the ReviewPulse API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/reviewpulse/reviewpulse/internal/api"
	"github.com/reviewpulse/reviewpulse/internal/api/handler"
	mw "github.com/reviewpulse/reviewpulse/internal/api/middleware"
	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/internal/cache"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/internal/judgeme"
	"github.com/reviewpulse/reviewpulse/internal/reviewcache"
	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

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
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"sentiment_provider", cfg.Sentiment.Provider,
		"review_ttl", cfg.Cache.ReviewTTL,
		"env", cfg.Server.Env,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create sentiment scorer
	scorer, err := sentiment.NewScorer(cfg.Sentiment)
	if err != nil {
		return fmt.Errorf("create sentiment scorer: %w", err)
	}
	slog.Info("sentiment scorer initialized", "provider", scorer.Name())

	// 6. Build the review snapshot cache over the provider client
	providerClient := judgeme.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.PerPage, cfg.Provider.Timeout)
	fetcher := reviewcache.NewProviderFetcher(providerClient, nil)
	snapshots := reviewcache.New(fetcher, cfg.Cache.ReviewTTL)

	// 7. Create store and insight service
	pgStore := store.NewPostgresStore(pool)
	svc := insight.NewService(snapshots, scorer, cfg.Analytics,
		insight.WithResponseCache(redisCache, cfg.Cache.ResponseTTL))

	// 8. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler:         healthHandler(pgStore, redisCache),
		CatalogWebhookHandler: handler.NewCatalogWebhookHandler(pgStore, snapshots),

		AllSummariesHandler:   handler.NewAllSummariesHandler(svc, pgStore),
		ProductSummaryHandler: handler.NewProductSummaryHandler(svc, pgStore),
		ProductsHandler:       handler.NewProductsHandler(svc, pgStore),
		AtRiskHandler:         handler.NewAtRiskHandler(svc, pgStore),
		TrendsHandler:         handler.NewTrendsHandler(svc, pgStore),
		AlertsHandler:         handler.NewAlertsHandler(svc, pgStore),
		ThemesHandler:         handler.NewThemesHandler(svc, pgStore),
		ActionableHandler:     handler.NewActionableHandler(svc, pgStore, false),
		ActionableThemes:      handler.NewActionableHandler(svc, pgStore, true),
		InsightsHandler:       handler.NewInsightsHandler(svc, pgStore),
		StatsHandler:          handler.NewStatsHandler(svc, pgStore),

		CreateTenantHandler: handler.NewCreateTenantHandler(pgStore),
		ListTenantsHandler:  handler.NewListTenantsHandler(pgStore),
		CreateKeyHandler:    handler.NewCreateKeyHandler(pgStore),
		RevokeKeyHandler:    handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
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

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
