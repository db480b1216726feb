package usecase

import (
	"time"

	"github.com/iho/timelimit/internal/domain"
)

// OverrideFunc adapts a function to OverrideSource.
type OverrideFunc func(category string, edge domain.Edge) (time.Duration, bool)

// Override calls f.
func (f OverrideFunc) Override(category string, edge domain.Edge) (time.Duration, bool) {
	return f(category, edge)
}

// NoOverrides is an OverrideSource that never answers.
var NoOverrides OverrideSource = OverrideFunc(func(string, domain.Edge) (time.Duration, bool) {
	return 0, false
})

// ChainOverrides consults sources in order and returns the first answer.
// Nil sources are skipped.
func ChainOverrides(sources ...OverrideSource) OverrideSource {
	return OverrideFunc(func(category string, edge domain.Edge) (time.Duration, bool) {
		for _, s := range sources {
			if s == nil {
				continue
			}
			if d, ok := s.Override(category, edge); ok {
				return d, true
			}
		}
		return 0, false
	})
}
