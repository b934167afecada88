package config

import (
	"os"

	"github.com/nidmfsl/cli/internal/output"
)

// Environment variables consulted by the resolver.
const (
	EnvConfig       = "NIDMFSL_CONFIG"
	EnvSmoothest    = "NIDMFSL_SMOOTHEST_BINARY"
	EnvPostStatsLog = "NIDMFSL_POSTSTATSLOG"
	EnvOutput       = "NIDMFSL_OUTPUT"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value with its provenance.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveOptions names the candidate values of one key.
type ResolveOptions struct {
	Key string
	// FlagValue is the flag value (empty if not set).
	FlagValue string
	// EnvVar is read from the environment.
	EnvVar string
	// ConfigValue is the value from the config file (empty if not set).
	ConfigValue string
	// DefaultValue applies when nothing else is set.
	DefaultValue string
}

// Resolve picks a value using precedence flag > env > config > default and
// records every lower-precedence value it shadows.
func Resolve(opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]string),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.DefaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) NIDMFSL_CONFIG env, (3) ~/.nidmfsl/config.yaml
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	return Resolve(ResolveOptions{
		Key:          "config",
		FlagValue:    flagValue,
		EnvVar:       EnvConfig,
		DefaultValue: paths.ConfigFile,
	}), nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
