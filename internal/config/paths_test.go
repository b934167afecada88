package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no tilde", "/absolute/path", "/absolute/path"},
		{"relative path", "relative/path", "relative/path"},
		{"tilde only", "~", homeDir},
		{"tilde with path", "~/.nidmfsl/config.yaml", filepath.Join(homeDir, ".nidmfsl", "config.yaml")},
		{"tilde username not expanded", "~username/file", "~username/file"},
		{"tilde in middle not expanded", "/path/~/file", "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	paths, err := DefaultPaths()
	require.NoError(t, err)
	assert.Equal(t, ".nidmfsl", filepath.Base(paths.HomeDir))
	assert.Equal(t, filepath.Join(paths.HomeDir, "config.yaml"), paths.ConfigFile)
}

func TestGetConfigFileEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/env/config.yaml")

	path, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/env/config.yaml", path)
}
