package config

import (
	"github.com/iho/timelimit/internal/usecase"
)

// ReadFile loads the file named by ConfigFile. An unset ConfigFile yields an empty File.
func (c *Config) ReadFile() (*File, error) {
	if c.ConfigFile == "" {
		return &File{}, nil
	}
	return LoadFile(c.ConfigFile)
}

// Overrides chains bound overrides in precedence order: lookup (usually
// EnvLookup), then the file's timeouts section, then extra sources.
func (c *Config) Overrides(lookup Lookup, file *File, extra ...usecase.OverrideSource) usecase.OverrideSource {
	sources := []usecase.OverrideSource{NewParameterSource(c.Namespace, lookup)}
	if file != nil && len(file.Timeouts) > 0 {
		sources = append(sources, NewParameterSource(c.Namespace, MapLookup(file.Parameters(c.Namespace))))
	}
	sources = append(sources, extra...)

	return usecase.ChainOverrides(sources...)
}

// UseCaseOptions translates configuration flags into use case options.
func (c *Config) UseCaseOptions() []usecase.Option {
	var opts []usecase.Option
	if c.StrictBounds {
		opts = append(opts, usecase.WithStrictBounds())
	}
	return opts
}
