package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	redisRepo "github.com/iho/timelimit/internal/adapter/repository/redis"
	"github.com/iho/timelimit/internal/infrastructure/config"
	"github.com/iho/timelimit/internal/infrastructure/logger"
	"github.com/iho/timelimit/internal/infrastructure/redis"
	"github.com/iho/timelimit/internal/usecase"
)

// errFailed signals a completed command whose result should fail the process.
var errFailed = errors.New("time limit check failed")

type app struct {
	configFile string
	jsonOutput bool
	logLevel   string

	// environ replaces the process environment when non-nil.
	environ map[string]string
	stdin   io.Reader
}

func main() {
	a := &app{stdin: os.Stdin}

	if err := newRootCmd(a).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "timelimit",
		Short:         "Test runtime category tool",
		Long:          `Inspect runtime categories and check go test results against their time limits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML file with timeouts and declarations (overrides TIMELIMIT_CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (defaults to LOG_LEVEL)")

	rootCmd.AddCommand(
		boundsCmd(a),
		suggestCmd(a),
		checkCmd(a),
		reportCmd(a),
		overridesCmd(a),
	)

	return rootCmd
}

func (a *app) loadConfig() (*config.Config, config.Lookup, error) {
	var (
		cfg    *config.Config
		lookup config.Lookup
		err    error
	)
	if a.environ != nil {
		cfg, err = config.LoadFrom(a.environ)
		lookup = func(key string) (string, bool) {
			v, ok := a.environ[config.EnvName(key)]
			return v, ok
		}
	} else {
		cfg, err = config.Load()
		lookup = config.EnvLookup
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.configFile != "" {
		cfg.ConfigFile = a.configFile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	return cfg, lookup, nil
}

func (a *app) logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: "console",
		Output: cmd.ErrOrStderr(),
	})
}

// environment bundles what every command needs.
type environment struct {
	cfg        *config.Config
	file       *config.File
	timeLimits *usecase.TimeLimitUseCase
	log        zerolog.Logger
}

// setup resolves configuration, the optional file and, when REDIS_URL is set,
// a snapshot of the shared overrides.
func (a *app) setup(ctx context.Context, cmd *cobra.Command) (*environment, error) {
	cfg, lookup, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	log := a.logger(cmd, cfg)

	file, err := cfg.ReadFile()
	if err != nil {
		return nil, err
	}

	var extra []usecase.OverrideSource
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			return nil, err
		}
		defer client.Close()

		source, err := redisRepo.NewOverrideStore(client, cfg.RedisKey).Source(ctx, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		extra = append(extra, source)
		log.Debug().Str("key", cfg.RedisKey).Msg("loaded shared overrides")
	}

	return &environment{
		cfg:        cfg,
		file:       file,
		timeLimits: usecase.NewTimeLimitUseCase(cfg.Overrides(lookup, file, extra...), cfg.UseCaseOptions()...),
		log:        log,
	}, nil
}
