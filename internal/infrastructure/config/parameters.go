package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/iho/timelimit/internal/domain"
)

// Lookup returns the raw value stored under key.
type Lookup func(key string) (string, bool)

// ParameterSource reads bound overrides from namespaced keys of the form
// <namespace>.timeout.<category>.lower and <namespace>.timeout.<category>.upper.
// Missing, empty, negative or unparseable values are reported as absent.
type ParameterSource struct {
	namespace string
	lookup    Lookup
}

// NewParameterSource creates a ParameterSource over lookup.
func NewParameterSource(namespace string, lookup Lookup) *ParameterSource {
	return &ParameterSource{
		namespace: namespace,
		lookup:    lookup,
	}
}

// Override implements usecase.OverrideSource.
func (s *ParameterSource) Override(category string, edge domain.Edge) (time.Duration, bool) {
	if s.lookup == nil {
		return 0, false
	}

	raw, ok := s.lookup(Key(s.namespace, category, edge))
	if !ok {
		return 0, false
	}

	d, err := domain.ParseDuration(raw)
	if err != nil {
		return 0, false
	}

	return d, true
}

// Key builds the configuration key of one bound edge.
func Key(namespace, category string, edge domain.Edge) string {
	return namespace + ".timeout." + category + "." + edge.String()
}

// MapLookup looks keys up in m.
func MapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// EnvLookup reads keys from the process environment, translated by EnvName.
func EnvLookup(key string) (string, bool) {
	return os.LookupEnv(EnvName(key))
}

// EnvName converts a configuration key to an environment variable name:
// timelimit.timeout.short.lower becomes TIMELIMIT_TIMEOUT_SHORT_LOWER.
func EnvName(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, key)
}
