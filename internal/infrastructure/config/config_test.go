package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/timelimit/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("TIMELIMIT_NAMESPACE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Namespace != "timelimit" {
		t.Fatalf("expected default namespace timelimit, got %q", cfg.Namespace)
	}

	if !cfg.StrictBounds {
		t.Fatalf("expected strict bounds to be enabled by default")
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIMELIMIT_NAMESPACE", "com.github.danny02")
	t.Setenv("TIMELIMIT_STRICT_BOUNDS", "false")
	t.Setenv("TIMELIMIT_CONFIG_FILE", "timelimit.yaml")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_TIMEOUT", "2s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Namespace != "com.github.danny02" {
		t.Fatalf("expected custom namespace, got %s", cfg.Namespace)
	}

	if cfg.StrictBounds {
		t.Fatalf("expected strict bounds to be disabled")
	}

	if cfg.ConfigFile != "timelimit.yaml" {
		t.Fatalf("expected config file override, got %s", cfg.ConfigFile)
	}

	if cfg.RedisURL != "redis://example" || cfg.RedisTimeout != 2*time.Second {
		t.Fatalf("expected redis settings to be set, got url=%s timeout=%s", cfg.RedisURL, cfg.RedisTimeout)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}
}

func TestLoadFrom(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"LOG_LEVEL": "debug"})
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.Namespace != "timelimit" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
