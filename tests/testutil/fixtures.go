package testutil

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/timelimit/internal/adapter/http"
	"github.com/iho/timelimit/internal/adapter/http/handler"
	redisRepo "github.com/iho/timelimit/internal/adapter/repository/redis"
	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/infrastructure/config"
	"github.com/iho/timelimit/internal/infrastructure/metrics"
	"github.com/iho/timelimit/internal/infrastructure/redis"
	"github.com/iho/timelimit/internal/usecase"
)

// TestRedis provides an isolated override hash. It uses REDIS_URL when set
// and an in-process miniredis otherwise.
type TestRedis struct {
	Client *goredis.Client
	Key    string
	Store  *redisRepo.OverrideStore
	t      *testing.T
}

// NewTestRedis connects to the test Redis and allocates a unique hash key.
func NewTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://" + miniredis.RunT(t).Addr()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, redisURL, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}

	key := "timelimit:test:" + ulid.Make().String()

	return &TestRedis{
		Client: client,
		Key:    key,
		Store:  redisRepo.NewOverrideStore(client, key),
		t:      t,
	}
}

// Cleanup removes the hash and closes the connection.
func (r *TestRedis) Cleanup() {
	_ = r.Client.Del(context.Background(), r.Key).Err()
	_ = r.Client.Close()
}

// SetBound stores both edges of category under namespace.
func (r *TestRedis) SetBound(ctx context.Context, namespace, category string, lower, upper time.Duration) {
	r.t.Helper()

	if err := r.Store.Set(ctx, namespace, category, domain.EdgeLower, lower); err != nil {
		r.t.Fatalf("failed to set lower bound: %v", err)
	}
	if err := r.Store.Set(ctx, namespace, category, domain.EdgeUpper, upper); err != nil {
		r.t.Fatalf("failed to set upper bound: %v", err)
	}
}

// TestServer is the HTTP service wired the way cmd/server wires it.
type TestServer struct {
	*httptest.Server
	Registry *prometheus.Registry
}

// NewServer snapshots the overrides and starts the HTTP service. environ
// replaces the process environment for configuration and bound overrides.
func (r *TestRedis) NewServer(ctx context.Context, environ map[string]string) *TestServer {
	r.t.Helper()

	cfg, err := config.LoadFrom(environ)
	if err != nil {
		r.t.Fatalf("failed to load config: %v", err)
	}

	source, err := r.Store.Source(ctx, cfg.Namespace)
	if err != nil {
		r.t.Fatalf("failed to snapshot overrides: %v", err)
	}

	lookup := func(key string) (string, bool) {
		v, ok := environ[config.EnvName(key)]
		return v, ok
	}
	uc := usecase.NewTimeLimitUseCase(cfg.Overrides(lookup, nil, source), cfg.UseCaseOptions()...)

	registry := prometheus.NewRegistry()
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TimeLimitHandler: handler.NewTimeLimitHandler(uc, metrics.New(registry)),
		HealthHandler:    handler.NewHealthHandler(r.Client),
		Logger:           zerolog.Nop(),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := httptest.NewServer(router)
	r.t.Cleanup(srv.Close)

	return &TestServer{Server: srv, Registry: registry}
}
