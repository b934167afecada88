package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nidmfsl/cli/internal/output"
)

func TestFeatFlagsAddTo(t *testing.T) {
	cmd := &cobra.Command{Use: "root"}
	var f FeatFlags
	f.AddTo(cmd)

	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--smoothest", "/opt/fsl/bin/smoothest", "--post-stats-log", "feat4_post_2"}))
	assert.Equal(t, "/opt/fsl/bin/smoothest", f.Smoothest)
	assert.Equal(t, "feat4_post_2", f.PostStatsLog)
}

func TestOutputFlagsResolve(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		fallback string
		want     output.Format
		wantErr  bool
	}{
		{"flag wins", "json", "yaml", output.FormatJSON, false},
		{"fallback", "", "table", output.FormatTable, false},
		{"invalid flag", "xml", "yaml", "", true},
		{"invalid fallback", "", "dir", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := OutputFlags{Format: tt.flag}
			got, err := f.Resolve(tt.fallback)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputFlagsAddTo(t *testing.T) {
	cmd := &cobra.Command{Use: "parse"}
	var f OutputFlags
	f.AddTo(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{"-o", "table"}))
	assert.Equal(t, "table", f.Format)
}
