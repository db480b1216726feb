package usecase

import (
	"time"

	"github.com/iho/timelimit/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// OverrideSource supplies configured bound edges for a category.
// Absence is reported with ok == false and is never an error.
type OverrideSource interface {
	Override(category string, edge domain.Edge) (d time.Duration, ok bool)
}

// Recorder observes validation outcomes.
type Recorder interface {
	RecordValidation(category string, observed time.Duration, outcome Outcome)
}

// Outcome is the result of validating one observed runtime.
type Outcome string

const (
	OutcomeWithinBound   Outcome = "within_bound"
	OutcomeOutOfBound    Outcome = "out_of_bound"
	OutcomeMisconfigured Outcome = "misconfigured"
)

// OutcomeOf classifies the return values of ValidateRuntime.
func OutcomeOf(violation *domain.Violation, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeMisconfigured
	case violation != nil:
		return OutcomeOutOfBound
	default:
		return OutcomeWithinBound
	}
}
