package timelimit

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/infrastructure/config"
	"github.com/iho/timelimit/internal/usecase"
)

// Built-in categories.
const (
	CategoryShort   = domain.CategoryShort
	CategoryMedium  = domain.CategoryMedium
	CategoryLong    = domain.CategoryLong
	CategoryEternal = domain.CategoryEternal
)

// Unbounded is the upper edge of a category without an upper limit.
const Unbounded = domain.Unbounded

type (
	// Bound is an inclusive runtime range.
	Bound = domain.Bound
	// Violation describes a test that ran outside its bound.
	Violation = domain.Violation
	// Declaration holds the categories declared on a test and on its suite.
	Declaration = domain.Declaration
	// ConfigurationError reports a category whose bound cannot be resolved.
	ConfigurationError = domain.ConfigurationError
)

// Errors matched with errors.Is against failures of ResolveBound and ValidateRuntime.
var (
	ErrMissingBound  = domain.ErrMissingBound
	ErrInvertedBound = domain.ErrInvertedBound
)

// TB is the part of testing.TB used to report results.
type TB interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
	Cleanup(func())
}

type options struct {
	now        func() time.Time
	logger     zerolog.Logger
	parameters map[string]string
	environ    map[string]string
}

// Option configures a Checker.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger logs every check at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithParameters sets namespaced parameters such as
// "timelimit.timeout.db.upper": "250". They take precedence over the
// environment and the configuration file.
func WithParameters(params map[string]string) Option {
	return func(o *options) {
		o.parameters = params
	}
}

// WithEnvironment reads configuration from environ instead of the process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// Checker measures tests and validates them against their category bound.
// It is safe for concurrent use by parallel tests.
type Checker struct {
	timeLimits *usecase.TimeLimitUseCase
	now        func() time.Time
	logger     zerolog.Logger
}

// NewChecker loads configuration and builds a Checker.
func NewChecker(opts ...Option) (*Checker, error) {
	o := options{
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		cfg    *config.Config
		lookup config.Lookup
		err    error
	)
	if o.environ != nil {
		cfg, err = config.LoadFrom(o.environ)
		lookup = func(key string) (string, bool) {
			v, ok := o.environ[config.EnvName(key)]
			return v, ok
		}
	} else {
		cfg, err = config.Load()
		lookup = config.EnvLookup
	}
	if err != nil {
		return nil, fmt.Errorf("timelimit: failed to load config: %w", err)
	}

	file, err := cfg.ReadFile()
	if err != nil {
		return nil, fmt.Errorf("timelimit: %w", err)
	}

	overrides := usecase.ChainOverrides(
		config.NewParameterSource(cfg.Namespace, config.MapLookup(o.parameters)),
		cfg.Overrides(lookup, file),
	)

	return &Checker{
		timeLimits: usecase.NewTimeLimitUseCase(overrides, cfg.UseCaseOptions()...),
		now:        o.now,
		logger:     o.logger,
	}, nil
}

// ResolveBound returns the effective bound of category.
func (c *Checker) ResolveBound(category string) (Bound, error) {
	return c.timeLimits.ResolveBound(category)
}

// SuggestCategory returns the smallest built-in category containing d.
func (c *Checker) SuggestCategory(d time.Duration) (string, bool) {
	return c.timeLimits.SuggestCategory(d)
}

// ValidateRuntime checks observed against the bound of category.
// A nil Violation means the runtime is within bound.
func (c *Checker) ValidateRuntime(observed time.Duration, category string) (*Violation, error) {
	return c.timeLimits.ValidateRuntime(observed, category)
}

// Limit starts measuring t and checks the elapsed time against category when
// t and its subtests have finished. Cleanups registered before Limit are not
// measured. Runtimes are compared at millisecond resolution.
func (c *Checker) Limit(t TB, category string) {
	t.Helper()

	if err := domain.ValidateCategoryName(category); err != nil {
		t.Errorf("timelimit: %v", err)
		return
	}

	start := c.now()
	t.Cleanup(func() {
		observed := c.now().Sub(start).Truncate(time.Millisecond)

		violation, err := c.timeLimits.ValidateRuntime(observed, category)
		c.logger.Debug().
			Str("test", t.Name()).
			Str("category", category).
			Dur("observed", observed).
			Str("outcome", string(usecase.OutcomeOf(violation, err))).
			Msg("time limit checked")

		switch {
		case err != nil:
			t.Errorf("timelimit: %v", err)
		case violation != nil:
			t.Errorf("%s", violation)
		}
	})
}

// Check limits t by the category of d. Tests without a declared category are not checked.
func (c *Checker) Check(t TB, d Declaration) {
	t.Helper()

	if category, ok := d.Category(); ok {
		c.Limit(t, category)
	}
}

// Limit checks t against category using configuration from the environment.
func Limit(t TB, category string) {
	t.Helper()

	c, err := NewChecker()
	if err != nil {
		t.Errorf("%v", err)
		return
	}
	c.Limit(t, category)
}

// Short limits t to the short category.
func Short(t TB) {
	t.Helper()
	Limit(t, CategoryShort)
}

// Medium limits t to the medium category.
func Medium(t TB) {
	t.Helper()
	Limit(t, CategoryMedium)
}

// Long limits t to the long category.
func Long(t TB) {
	t.Helper()
	Limit(t, CategoryLong)
}

// Eternal limits t to the eternal category.
func Eternal(t TB) {
	t.Helper()
	Limit(t, CategoryEternal)
}
