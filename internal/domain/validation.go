package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Validation constants
const (
	MaxCategoryNameLength = 64
)

// ValidateCategoryName checks that name can be used as a category and as part
// of a configuration key.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategory
	}

	if len(name) > MaxCategoryNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCategory, MaxCategoryNameLength)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidCategory, name)
		}
	}

	return nil
}

// ParseDuration parses a bound edge. A bare integer is read as milliseconds,
// anything else as a Go duration string ("250ms", "2s"). Negative values are rejected.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDuration)
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrInvalidDuration, ms)
		}
		return Millis(ms), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative value %s", ErrInvalidDuration, raw)
	}

	return d, nil
}
