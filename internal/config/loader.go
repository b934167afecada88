package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable prefix for nidmfsl configuration.
const envPrefix = "NIDMFSL"

// DotEnvFile is read from the working directory before any env lookup.
const DotEnvFile = ".env"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("smoothest.binary", DefaultSmoothestBinary)
	v.SetDefault("postStatsLog", DefaultPostStatsLog)
	v.SetDefault("output", DefaultOutput)

	// No default: nil means "on" and must stay distinguishable from false.
	_ = v.BindEnv("log.timestamps", "NIDMFSL_LOG_TIMESTAMPS")

	return &Loader{v: v}
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults + env vars
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// InConfig reports whether key was set by the loaded config file.
func (l *Loader) InConfig(key string) bool {
	return l.v.InConfig(key)
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(expandedPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
