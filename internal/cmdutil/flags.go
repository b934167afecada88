// Package cmdutil provides shared command utilities for the FEAT subcommands.
// It centralizes flag group management, the parse preamble and output
// format resolution.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/output"
)

// FeatFlags holds flags that configure how a FEAT directory is parsed
// (parse, clusters, diff). They are registered as persistent flags.
type FeatFlags struct {
	Smoothest    string
	PostStatsLog string
}

// AddTo registers the FEAT flags on the given cobra command.
func (f *FeatFlags) AddTo(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.Smoothest, "smoothest", "",
		"smoothest binary (env: NIDMFSL_SMOOTHEST_BINARY)")
	cmd.PersistentFlags().StringVar(&f.PostStatsLog, "post-stats-log", "",
		"Post-stats log name under logs/ (env: NIDMFSL_POSTSTATSLOG)")
}

// OutputFlags holds the output format flag.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flag on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", "",
		"Output format: yaml, json, table (env: NIDMFSL_OUTPUT)")
}

// Resolve returns the flag format, or fallback when the flag is unset.
func (f *OutputFlags) Resolve(fallback string) (output.Format, error) {
	raw := f.Format
	if raw == "" {
		raw = fallback
	}
	format, ok := output.ParseFormat(raw)
	if !ok {
		return "", fmt.Errorf("invalid output format %q (valid: %v)", raw, output.ValidFormats())
	}
	return format, nil
}
