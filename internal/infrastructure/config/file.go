package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iho/timelimit/internal/domain"
)

// File is the optional YAML file holding bound overrides and test declarations.
//
//	timeouts:
//	  custom:
//	    lower: 30
//	    upper: 60
//	declarations:
//	  packages:
//	    github.com/acme/store: long
//	  tests:
//	    TestCheckout: short
type File struct {
	Timeouts     map[string]EdgeValues `yaml:"timeouts"`
	Declarations Declarations          `yaml:"declarations"`
}

// EdgeValues holds raw edge values as written in the file.
type EdgeValues struct {
	Lower string `yaml:"lower"`
	Upper string `yaml:"upper"`
}

// Declarations maps tests and packages to categories.
type Declarations struct {
	Packages map[string]string `yaml:"packages"`
	Tests    map[string]string `yaml:"tests"`
}

// LoadFile reads and validates a configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseFile(data)
}

// ParseFile decodes and validates YAML configuration.
func ParseFile(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for category := range f.Timeouts {
		if err := domain.ValidateCategoryName(category); err != nil {
			return nil, fmt.Errorf("timeouts: %w", err)
		}
	}
	for _, m := range []map[string]string{f.Declarations.Packages, f.Declarations.Tests} {
		for name, category := range m {
			if err := domain.ValidateCategoryName(category); err != nil {
				return nil, fmt.Errorf("declarations: %s: %w", name, err)
			}
		}
	}

	return f, nil
}

// Parameters flattens the timeouts section into namespaced keys usable with MapLookup.
func (f *File) Parameters(namespace string) map[string]string {
	params := make(map[string]string, len(f.Timeouts)*2)
	for category, v := range f.Timeouts {
		if v.Lower != "" {
			params[Key(namespace, category, domain.EdgeLower)] = v.Lower
		}
		if v.Upper != "" {
			params[Key(namespace, category, domain.EdgeUpper)] = v.Upper
		}
	}
	return params
}
