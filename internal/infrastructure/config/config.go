package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Time limits
	Namespace    string `env:"TIMELIMIT_NAMESPACE"     envDefault:"timelimit"`
	StrictBounds bool   `env:"TIMELIMIT_STRICT_BOUNDS" envDefault:"true"`
	ConfigFile   string `env:"TIMELIMIT_CONFIG_FILE"   envDefault:""`

	// Redis (optional - leave empty to disable shared overrides)
	RedisURL     string        `env:"REDIS_URL"           envDefault:""`
	RedisKey     string        `env:"TIMELIMIT_REDIS_KEY" envDefault:"timelimit:overrides"`
	RedisTimeout time.Duration `env:"REDIS_TIMEOUT"       envDefault:"5s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFrom loads configuration from the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{Environment: environ})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
