package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NIDMFSL_CONFIG", "")
	t.Setenv("NIDMFSL_OUTPUT", "")
	settings = nil

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--timestamps=false"))

	err := root.Execute()
	return stdout.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err)
	return out
}
