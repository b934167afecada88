package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/cmdutil"
	"github.com/nidmfsl/cli/internal/config"
	"github.com/nidmfsl/cli/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
	featFlags      cmdutil.FeatFlags

	// Resolved configuration (loaded during PersistentPreRunE)
	settings *Settings
)

// Settings are the configuration values after flag > env > config > default resolution.
type Settings struct {
	ConfigPath   config.ResolvedValue
	Smoothest    config.ResolvedValue
	PostStatsLog config.ResolvedValue
	Output       config.ResolvedValue
}

// NewRootCmd creates the root command for the nidmfsl CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nidmfsl",
		Short: "FSL FEAT result parser",
		Long: `nidmfsl reads an FSL FEAT output directory and assembles its model fitting,
contrast and inference records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: NIDMFSL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	featFlags.AddTo(rootCmd)

	rootCmd.AddCommand(NewParseCmd())
	rootCmd.AddCommand(NewClustersCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}

	configPath, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return err
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(configPath.Value)
	if err != nil {
		// Commands must keep working with a broken config file.
		output.Debug("config load error", "error", err)
		cfg = config.DefaultConfig()
	}

	fromFile := func(key, value string) string {
		if loader.InConfig(key) {
			return value
		}
		return ""
	}

	settings = &Settings{
		ConfigPath: configPath,
		Smoothest: config.Resolve(config.ResolveOptions{
			Key:          "smoothest.binary",
			FlagValue:    featFlags.Smoothest,
			EnvVar:       config.EnvSmoothest,
			ConfigValue:  fromFile("smoothest.binary", cfg.Smoothest.Binary),
			DefaultValue: config.DefaultSmoothestBinary,
		}),
		PostStatsLog: config.Resolve(config.ResolveOptions{
			Key:          "postStatsLog",
			FlagValue:    featFlags.PostStatsLog,
			EnvVar:       config.EnvPostStatsLog,
			ConfigValue:  fromFile("postStatsLog", cfg.PostStatsLog),
			DefaultValue: config.DefaultPostStatsLog,
		}),
		Output: config.Resolve(config.ResolveOptions{
			Key:          "output",
			EnvVar:       config.EnvOutput,
			ConfigValue:  fromFile("output", cfg.Output),
			DefaultValue: config.DefaultOutput,
		}),
	}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		config.LogResolvedValues([]config.ResolvedValue{
			settings.ConfigPath,
			settings.Smoothest,
			settings.PostStatsLog,
			settings.Output,
		})
	}

	return nil
}

// GetSettings returns the resolved settings, or defaults before initialization.
func GetSettings() *Settings {
	if settings != nil {
		return settings
	}
	return &Settings{
		Smoothest:    config.ResolvedValue{Key: "smoothest.binary", Value: config.DefaultSmoothestBinary, Source: config.SourceDefault},
		PostStatsLog: config.ResolvedValue{Key: "postStatsLog", Value: config.DefaultPostStatsLog, Source: config.SourceDefault},
		Output:       config.ResolvedValue{Key: "output", Value: config.DefaultOutput, Source: config.SourceDefault},
	}
}
