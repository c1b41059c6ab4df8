// Package config loads the optional tsguard.yaml project file: extra sink
// and escaper functions the built-in registry doesn't know about, layered
// on top of internal/registry's defaults without recompiling the analyser.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sink declares an extra sink function and which argument position, if
// untrusted, should be reported.
type Sink struct {
	Function string `yaml:"function"`
	Arg      int    `yaml:"arg"`
	Tag      string `yaml:"tag"`
}

// Escaper declares an extra function that turns Prim(string) into
// Escaped(Tag, Prim(string)).
type Escaper struct {
	Function string `yaml:"function"`
	Tag      string `yaml:"tag"`
}

// Config is the parsed form of tsguard.yaml.
type Config struct {
	Sinks    []Sink    `yaml:"sinks,omitempty"`
	Escapers []Escaper `yaml:"escapers,omitempty"`
}

// IsTestMode records cmd/tsguard's -test-mode flag, set once at startup.
// Nothing reads it, so it changes no output; generated Param names are
// always "$" plus the variable name.
var IsTestMode = false

// Load reads and parses a tsguard.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses tsguard.yaml content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Find searches for tsguard.yaml starting from dir and walking up to
// parent directories, the way funxy.yaml discovery works. Returns an
// empty path and nil error when nothing is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"tsguard.yaml", "tsguard.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	for i, s := range c.Sinks {
		if s.Function == "" {
			return fmt.Errorf("%s: sinks[%d]: function is required", path, i)
		}
		if s.Tag == "" {
			return fmt.Errorf("%s: sinks[%d] (%s): tag is required", path, i, s.Function)
		}
		if s.Arg < 0 {
			return fmt.Errorf("%s: sinks[%d] (%s): arg must be >= 0", path, i, s.Function)
		}
	}
	for i, e := range c.Escapers {
		if e.Function == "" {
			return fmt.Errorf("%s: escapers[%d]: function is required", path, i)
		}
		if e.Tag == "" {
			return fmt.Errorf("%s: escapers[%d] (%s): tag is required", path, i, e.Function)
		}
	}
	return nil
}
