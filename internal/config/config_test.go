package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "smoothest", cfg.Smoothest.Binary)
	assert.Equal(t, "feat4_post", cfg.PostStatsLog)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "binary: smoothest")
	assert.Contains(t, string(data), "postStatsLog: feat4_post")

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := WriteDefault(path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("overwrites with force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o644))
		require.NoError(t, WriteDefault(path, true))

		cfg, err := NewLoader().Load(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Output)
	})
}
