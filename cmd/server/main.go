package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/timelimit/internal/adapter/http"
	"github.com/iho/timelimit/internal/adapter/http/handler"
	"github.com/iho/timelimit/internal/adapter/http/middleware"
	redisRepo "github.com/iho/timelimit/internal/adapter/repository/redis"
	"github.com/iho/timelimit/internal/infrastructure/config"
	"github.com/iho/timelimit/internal/infrastructure/logger"
	"github.com/iho/timelimit/internal/infrastructure/metrics"
	"github.com/iho/timelimit/internal/infrastructure/redis"
	"github.com/iho/timelimit/internal/usecase"
)

const (
	apiRateLimit = 50
	apiBurst     = 100
	limiterIdle  = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	file, err := cfg.ReadFile()
	if err != nil {
		return err
	}

	// Connect to Redis when shared overrides are enabled
	var (
		redisClient *goredis.Client
		extra       []usecase.OverrideSource
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		source, err := redisRepo.NewOverrideStore(redisClient, cfg.RedisKey).Source(ctx, cfg.Namespace)
		if err != nil {
			return fmt.Errorf("failed to load shared overrides: %w", err)
		}
		extra = append(extra, source)
	}

	// Initialize use case
	timeLimitUC := usecase.NewTimeLimitUseCase(cfg.Overrides(config.EnvLookup, file, extra...), cfg.UseCaseOptions()...)

	// Initialize handlers
	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	rateLimiter := middleware.NewRateLimiter(apiRateLimit, apiBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TimeLimitHandler: handler.NewTimeLimitHandler(timeLimitUC, appMetrics),
		HealthHandler:    handler.NewHealthHandler(redisClient),
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go evictIdleClients(ctx, rateLimiter, log)

	return serve(ctx, server, cfg.HTTPShutdownTimeout, log)
}

// serve runs server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func evictIdleClients(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Evict(limiterIdle); n > 0 {
				log.Debug().Int("clients", n).Msg("evicted idle rate limiters")
			}
		}
	}
}
