package domain

import (
	"errors"
	"fmt"
)

var (
	// Bound errors
	ErrMissingBound  = errors.New("timeout bound not configured")
	ErrInvertedBound = errors.New("lower bound exceeds upper bound")

	// Input errors
	ErrEmptyCategory   = errors.New("category name cannot be empty")
	ErrInvalidCategory = errors.New("invalid category name")
	ErrInvalidDuration = errors.New("invalid duration")
)

// ConfigurationError is returned when the effective bound of a category cannot
// be assembled from overrides and defaults.
type ConfigurationError struct {
	Category string
	Missing  Edge
}

func (e *ConfigurationError) Error() string {
	switch e.Missing {
	case EdgeLower:
		return fmt.Sprintf("no configured lower bound or default for timeout category '%s'", e.Category)
	case EdgeUpper:
		return fmt.Sprintf("no configured upper bound or default for timeout category '%s'", e.Category)
	default:
		return fmt.Sprintf("no configured lower or upper bound or default for timeout category '%s'", e.Category)
	}
}

// Is reports ErrMissingBound as the sentinel for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrMissingBound
}
