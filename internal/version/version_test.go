package version

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.2.3", GitCommit: "abc123", BuildDate: "2026-01-01", GoVersion: "go1.25.0"}

	s := info.String()
	assert.Contains(t, s, "nidmfsl version v1.2.3")
	assert.Contains(t, s, "abc123")
	assert.Contains(t, s, "go1.25.0")
}

func TestDetectSmoothest(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		info := DetectSmoothest("definitely-not-a-smoothest-binary")
		assert.False(t, info.Found)
		assert.Empty(t, info.Path)
	})

	t.Run("found by path", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("executable bit is not meaningful on windows")
		}
		bin := filepath.Join(t.TempDir(), "smoothest")
		require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

		info := DetectSmoothest(bin)
		assert.True(t, info.Found)
		assert.Equal(t, bin, info.Path)
	})
}
