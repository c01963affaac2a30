// Package main is the entrypoint for the RadAssist API server.
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

	"github.com/kiranshivaraju/radassist/internal/ai"
	"github.com/kiranshivaraju/radassist/internal/api"
	"github.com/kiranshivaraju/radassist/internal/api/handler"
	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/cache"
	"github.com/kiranshivaraju/radassist/internal/config"
	"github.com/kiranshivaraju/radassist/internal/flow"
	"github.com/kiranshivaraju/radassist/internal/media"
	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/internal/pipeline"
	"github.com/kiranshivaraju/radassist/internal/prompt"
	"github.com/kiranshivaraju/radassist/internal/session"
	"github.com/kiranshivaraju/radassist/internal/store"
)

const shutdownTimeout = 30 * time.Second

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
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

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

	// 4. Redis backs the per-key rate limiter
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Object store for key-referenced media
	src, err := newMediaSource(ctx, cfg.Minio)
	if err != nil {
		return fmt.Errorf("create media source: %w", err)
	}

	// 6. Generative backend and prompt catalogue
	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	backend := ai.NewRateLimited(provider, cfg.AI.RequestsPerSecond, cfg.AI.Burst)
	slog.Info("AI provider initialized", "provider", backend.Name())

	catalogue, err := prompt.Default()
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// 7. Store, invoker, pipeline and sessions
	pgStore := store.NewPostgresStore(pool)

	inv := flow.NewInvoker(backend, catalogue,
		flow.WithTimeout(cfg.AI.InferenceTimeout),
		flow.WithMetrics(m),
		flow.WithRecorder(pgStore),
		flow.WithLogger(slog.Default()),
	)
	p := pipeline.New(inv, cfg.Pipeline.MaxBatchItems, m)
	sessions := session.NewRegistry(p, cfg.Session.TTL, cfg.Session.CleanupInterval, m)

	// 8. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMinute),

		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxRequestBytes: cfg.Server.MaxRequestBytes,

		HealthHandler:  handler.NewHealthHandler(pgStore, redisCache),
		MetricsHandler: m.Handler().ServeHTTP,

		GenerateTextHandler: handler.NewGenerateTextHandler(p),

		CreateSessionHandler: handler.NewCreateSessionHandler(sessions),
		GetSessionHandler:    handler.NewGetSessionHandler(sessions),
		DeleteSessionHandler: handler.NewDeleteSessionHandler(sessions),

		AnalyzeHandler:          handler.NewAnalyzeHandler(sessions, src, cfg.Pipeline.MaxBatchItems),
		CorrelateHandler:        handler.NewCorrelateHandler(sessions),
		ReportHandler:           handler.NewReportHandler(sessions),
		ExplainHandler:          handler.NewExplainHandler(sessions),
		ListExplanationsHandler: handler.NewListExplanationsHandler(sessions),
		AskHandler:              handler.NewAskHandler(sessions),
		TranscriptHandler:       handler.NewTranscriptHandler(sessions),

		CreateKeyHandler:       handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:        handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler:       handler.NewRevokeKeyHandler(pgStore),
		ListInvocationsHandler: handler.NewListInvocationsHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server. Analysis runs several model calls, so the write
	// timeout has to outlast the inference timeout.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.AI.InferenceTimeout),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	inv.Wait()

	slog.Info("server stopped gracefully")
	return nil
}

// newMediaSource returns nil when no object store is configured, in which
// case only inline data URIs are accepted.
func newMediaSource(ctx context.Context, cfg config.MinioConfig) (media.Source, error) {
	if !cfg.Enabled() {
		slog.Info("object store disabled, accepting inline media only")
		return nil, nil
	}
	src, err := media.NewMinioSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("object store connected", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return src, nil
}

func writeTimeout(inference time.Duration) time.Duration {
	return max(30*time.Second, 2*inference+15*time.Second)
}
