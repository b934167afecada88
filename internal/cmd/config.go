package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/config"
	"github.com/nidmfsl/cli/internal/output"
)

var configInitForce bool

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the nidmfsl CLI.`,
	}

	cmd.AddCommand(NewConfigInitCmd())

	return cmd
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write the default configuration file.

The file is written to --config, NIDMFSL_CONFIG, or ~/.nidmfsl/config.yaml.

Examples:
  nidmfsl config init
  nidmfsl config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if err := config.WriteDefault(path.Value, configInitForce); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("configuration written to "+output.StyleNoun.Render(path.Value)))
	return nil
}
