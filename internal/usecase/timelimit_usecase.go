package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/iho/timelimit/internal/domain"
)

// TimeLimitUseCase resolves category bounds and validates observed runtimes.
// It is immutable after construction and safe for concurrent use.
type TimeLimitUseCase struct {
	overrides OverrideSource
	defaults  []domain.Category
	strict    bool
}

// Option configures a TimeLimitUseCase.
type Option func(*TimeLimitUseCase)

// WithDefaults replaces the built-in bound table.
func WithDefaults(categories []domain.Category) Option {
	return func(uc *TimeLimitUseCase) {
		uc.defaults = slices.Clone(categories)
	}
}

// WithStrictBounds makes ResolveBound reject bounds whose lower edge exceeds the upper edge.
func WithStrictBounds() Option {
	return func(uc *TimeLimitUseCase) {
		uc.strict = true
	}
}

// NewTimeLimitUseCase creates a new TimeLimitUseCase. A nil overrides source
// behaves like NoOverrides.
func NewTimeLimitUseCase(overrides OverrideSource, opts ...Option) *TimeLimitUseCase {
	if overrides == nil {
		overrides = NoOverrides
	}

	uc := &TimeLimitUseCase{
		overrides: overrides,
		defaults:  domain.DefaultCategories(),
	}
	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Defaults returns a copy of the default bound table.
func (uc *TimeLimitUseCase) Defaults() []domain.Category {
	return slices.Clone(uc.defaults)
}

// ResolveBound returns the effective bound of category. Each edge comes from
// the override source when present, otherwise from the default table.
func (uc *TimeLimitUseCase) ResolveBound(category string) (domain.Bound, error) {
	def, hasDefault := domain.FindCategory(uc.defaults, category)

	lower, hasLower := uc.overrides.Override(category, domain.EdgeLower)
	if !hasLower && hasDefault {
		lower, hasLower = def.Bound.Lower, true
	}

	upper, hasUpper := uc.overrides.Override(category, domain.EdgeUpper)
	if !hasUpper && hasDefault {
		upper, hasUpper = def.Bound.Upper, true
	}

	switch {
	case !hasLower && !hasUpper:
		return domain.Bound{}, &domain.ConfigurationError{Category: category, Missing: domain.EdgeBoth}
	case !hasLower:
		return domain.Bound{}, &domain.ConfigurationError{Category: category, Missing: domain.EdgeLower}
	case !hasUpper:
		return domain.Bound{}, &domain.ConfigurationError{Category: category, Missing: domain.EdgeUpper}
	}

	bound := domain.NewBound(lower, upper)
	if uc.strict {
		if err := bound.Validate(); err != nil {
			return domain.Bound{}, fmt.Errorf("timeout category '%s': %w", category, err)
		}
	}

	return bound, nil
}

// SuggestCategory returns the default category with the smallest lower edge
// whose bound contains d. Overrides are not consulted.
func (uc *TimeLimitUseCase) SuggestCategory(d time.Duration) (string, bool) {
	var matches []domain.Category
	for _, c := range uc.defaults {
		if c.Bound.Contains(d) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	slices.SortStableFunc(matches, func(a, b domain.Category) int {
		return cmp.Compare(a.Bound.Lower, b.Bound.Lower)
	})

	return matches[0].Name, true
}

// ValidateRuntime checks observed against the effective bound of category.
// A nil violation means the runtime is within bound. The error is non-nil only
// when the bound cannot be resolved.
func (uc *TimeLimitUseCase) ValidateRuntime(observed time.Duration, category string) (*domain.Violation, error) {
	bound, err := uc.ResolveBound(category)
	if err != nil {
		return nil, err
	}

	if bound.Contains(observed) {
		return nil, nil
	}

	suggested, _ := uc.SuggestCategory(observed)

	return &domain.Violation{
		Category:  category,
		Observed:  observed,
		Bound:     bound,
		Suggested: suggested,
	}, nil
}

// EffectiveBounds resolves every default category followed by any extra
// categories not already in the table.
func (uc *TimeLimitUseCase) EffectiveBounds(extra ...string) ([]domain.Category, error) {
	names := make([]string, 0, len(uc.defaults)+len(extra))
	for _, c := range uc.defaults {
		names = append(names, c.Name)
	}
	for _, name := range extra {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	result := make([]domain.Category, 0, len(names))
	for _, name := range names {
		bound, err := uc.ResolveBound(name)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.Category{Name: name, Bound: bound})
	}

	return result, nil
}
