// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when neither a flag, env var, nor config file sets a key.
const (
	DefaultSmoothestBinary = "smoothest"
	DefaultPostStatsLog    = "feat4_post"
	DefaultOutput          = "yaml"
)

// SmoothestConfig configures the external smoothness estimator.
type SmoothestConfig struct {
	// Binary is the smoothest executable.
	// Env: NIDMFSL_SMOOTHEST_BINARY, Default: smoothest (looked up in PATH)
	Binary string `mapstructure:"binary" yaml:"binary"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the nidmfsl configuration.
// Loaded from ~/.nidmfsl/config.yaml.
type Config struct {
	// Smoothest configures the smoothness estimator.
	Smoothest SmoothestConfig `mapstructure:"smoothest" yaml:"smoothest"`

	// PostStatsLog is the file name under logs/ holding the post-stats commands.
	// Env: NIDMFSL_POSTSTATSLOG
	PostStatsLog string `mapstructure:"postStatsLog" yaml:"postStatsLog"`

	// Output is the default output format of `nidmfsl parse`.
	// Env: NIDMFSL_OUTPUT
	Output string `mapstructure:"output" yaml:"output"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `nidmfsl config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Smoothest:    SmoothestConfig{Binary: DefaultSmoothestBinary},
		PostStatsLog: DefaultPostStatsLog,
		Output:       DefaultOutput,
	}
}

// WriteDefault writes the default config to path.
// An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if !force {
		if _, err := os.Stat(expanded); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", expanded)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(expanded, data, 0o644)
}
