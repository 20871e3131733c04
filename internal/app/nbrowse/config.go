// Package nbrowse wires the browsing session: configuration, the dispatcher holding the current
// location, the shell command registry, and the interactive loop.
package nbrowse

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nbrowse-run/nbrowse/pkg/paths"
)

// A Config holds the session configuration loaded at startup. All fields are optional.
type Config struct {
	// Color toggles colored output; unset means enabled.
	Color *bool `yaml:"color,omitempty"`
	// Foreground makes external opener programs block the shell until they exit.
	Foreground bool `yaml:"foreground,omitempty"`
	// Openers maps a dispatch class (e.g. "image", "pdf") to the external program which opens
	// files of that class.
	Openers map[string]string `yaml:"openers,omitempty"`
	// Types maps a filename extension to a dispatch class, overriding the built-in mappings.
	Types map[string]string `yaml:"types,omitempty"`
}

// LoadConfig loads a Config from the YAML file at the given path. An empty path yields the zero
// Config; a malformed file is a startup error which must abort before the interactive loop.
func LoadConfig(filePath string) (Config, error) {
	config := Config{}
	if filePath == "" {
		return config, nil
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, errors.Wrapf(err, "couldn't read config file %s", filePath)
	}
	if err = yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, errors.Wrapf(err, "couldn't parse config file %s", filePath)
	}
	return config, nil
}

// Overrides converts the config's dispatch customizations into table overrides.
func (c Config) Overrides() paths.Overrides {
	return paths.Overrides{
		Classes: c.Types,
		Openers: c.Openers,
	}
}

// ColorEnabled reports whether colored output should be used, with the given fallback for an
// unset config value.
func (c Config) ColorEnabled(fallback bool) bool {
	if c.Color == nil {
		return fallback
	}
	return *c.Color
}
