// Package testutil provides helpers that build FEAT directory trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nidmfsl/cli/internal/nifti"
)

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "nidmfsl-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteTable writes whitespace separated rows below optional header lines.
func WriteTable(t *testing.T, dir, name string, header []string, rows [][]float64) string {
	t.Helper()
	var b strings.Builder
	for _, h := range header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return WriteFile(t, dir, name, b.String())
}

// WriteImage writes a float NIfTI image with 2mm voxels.
func WriteImage(t *testing.T, dir, name string, dims []int, data []float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	img := nifti.New(dims, []float64{2, 2, 2}, data)
	if err := img.Write(path); err != nil {
		t.Fatalf("failed to write image %s: %v", path, err)
	}
	return path
}

// CopyDir copies a directory tree to a new temporary location.
func CopyDir(t *testing.T, src string) string {
	t.Helper()
	dst, cleanup := TempDir(t)
	t.Cleanup(cleanup)

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dstPath, data, info.Mode())
	})
	if err != nil {
		t.Fatalf("failed to copy %s: %v", src, err)
	}
	return dst
}
