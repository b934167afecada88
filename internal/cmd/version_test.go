package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestVersionCmdExecute(t *testing.T) {
	out := mustExecute(t, "version", "--smoothest", "definitely-not-a-smoothest-binary")

	assert.Contains(t, out, "nidmfsl version")
	assert.Contains(t, out, "definitely-not-a-smoothest-binary (not found in PATH)")
}
