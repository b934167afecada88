package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
smoothest:
  binary: /opt/fsl/bin/smoothest
postStatsLog: feat4_post_custom
output: json
log:
  timestamps: false
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		loader := NewLoader()
		cfg, err := loader.Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/opt/fsl/bin/smoothest", cfg.Smoothest.Binary)
		assert.Equal(t, "feat4_post_custom", cfg.PostStatsLog)
		assert.Equal(t, "json", cfg.Output)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
		assert.True(t, loader.InConfig("output"))
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, DefaultSmoothestBinary, cfg.Smoothest.Binary)
		assert.Equal(t, DefaultPostStatsLog, cfg.PostStatsLog)
		assert.Nil(t, cfg.Log.Timestamps)
	})

	t.Run("env overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("smoothest:\n  binary: from-file\n"), 0o644))
		t.Setenv("NIDMFSL_SMOOTHEST_BINARY", "from-env")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Smoothest.Binary)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("output: [unclosed\n"), 0o644))

		_, err := NewLoader().Load(configFile)
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("sets unset variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("NIDMFSL_OUTPUT=table\n"), 0o644))
		t.Setenv("NIDMFSL_OUTPUT", "")
		require.NoError(t, os.Unsetenv("NIDMFSL_OUTPUT"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "table", os.Getenv("NIDMFSL_OUTPUT"))
	})

	t.Run("does not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("NIDMFSL_OUTPUT=table\n"), 0o644))
		t.Setenv("NIDMFSL_OUTPUT", "json")

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "json", os.Getenv("NIDMFSL_OUTPUT"))
	})
}

func TestConfigFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	exists, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	exists, err = ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)
}
