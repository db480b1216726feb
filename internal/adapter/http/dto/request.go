package dto

import (
	"fmt"
	"time"

	"github.com/iho/timelimit/internal/domain"
)

// ValidateRequest represents a request to validate an observed runtime.
// Exactly one of DurationMs and Duration must be set.
type ValidateRequest struct {
	Category   string `json:"category"`
	DurationMs *int64 `json:"duration_ms,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Observed returns the observed runtime carried by the request.
func (r *ValidateRequest) Observed() (time.Duration, error) {
	switch {
	case r.DurationMs != nil && r.Duration != "":
		return 0, fmt.Errorf("%w: set either duration_ms or duration", domain.ErrInvalidDuration)
	case r.DurationMs != nil:
		if *r.DurationMs < 0 {
			return 0, fmt.Errorf("%w: negative duration_ms", domain.ErrInvalidDuration)
		}
		return domain.Millis(*r.DurationMs), nil
	case r.Duration != "":
		return domain.ParseDuration(r.Duration)
	default:
		return 0, fmt.Errorf("%w: duration is required", domain.ErrInvalidDuration)
	}
}
