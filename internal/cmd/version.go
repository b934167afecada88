package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show nidmfsl version information.

Displays:
  - nidmfsl version, commit, and build date
  - the smoothest binary used to recompute smoothness estimates`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, version.GetInfo().String())

	smoothest := version.DetectSmoothest(GetSettings().Smoothest.Value)
	if smoothest.Found {
		fmt.Fprintf(out, "  smoothest: %s\n", smoothest.Path)
	} else {
		fmt.Fprintf(out, "  smoothest: %s (not found in PATH)\n", smoothest.Binary)
	}
	return nil
}
