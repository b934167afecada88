package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/cmdutil"
	"github.com/nidmfsl/cli/internal/feat"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/output"
)

// GraphFile is the file name --write stores the graph under.
const GraphFile = "graph.yaml"

var (
	parseOutputFlags cmdutil.OutputFlags
	parseWriteFlag   bool
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <featdir>",
		Short: "Parse a FEAT directory and print its records",
		Long: `Parse an FSL FEAT output directory and print the assembled graph.

The graph holds one model fitting per analysis unit, the contrasts grouped by
the parameter estimates they use, and the inferences of each contrast.

Examples:
  # Print the graph as YAML
  nidmfsl parse analysis.feat

  # Summarize a group analysis
  nidmfsl parse group.gfeat -o table

  # Store graph.yaml in the next free nidm export directory
  nidmfsl parse analysis.feat --write`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	parseOutputFlags.AddTo(cmd)
	cmd.Flags().BoolVar(&parseWriteFlag, "write", false,
		"Write "+GraphFile+" into the next export directory")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := parseOutputFlags.Resolve(GetSettings().Output.Value)
	if err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	result, err := parseFeatDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == output.FormatTable {
		fmt.Fprintln(out, summaryTable(result).String())
	} else if err := output.WriteGraph(result.Graph(), output.GraphOptions{Format: format, Writer: out}); err != nil {
		return err
	}

	if parseWriteFlag {
		path, err := writeGraph(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), output.FormatCheckmark("graph written to "+output.StyleNoun.Render(path)))
	}

	return nil
}

// parseFeatDir parses dir with the resolved settings.
func parseFeatDir(ctx context.Context, dir string) (*feat.Result, error) {
	s := GetSettings()
	return cmdutil.ParseFeat(ctx, cmdutil.ParseOpts{
		Dir:          dir,
		PostStatsLog: s.PostStatsLog.Value,
		Smoothest:    s.Smoothest.Value,
	})
}

// writeGraph stores the YAML graph in the result's export directory.
func writeGraph(result *feat.Result) (string, error) {
	if err := os.MkdirAll(result.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(result.ExportDir, GraphFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := output.WriteGraph(result.Graph(), output.GraphOptions{Format: output.FormatYAML, Writer: f}); err != nil {
		return "", err
	}
	return path, f.Close()
}

// summaryTable lists contrasts and inference counts per analysis unit.
func summaryTable(result *feat.Result) *output.Table {
	tbl := output.NewTable("Unit", "Contrast", "Stat", "DOF", "Threshold", "Clusters")

	unitDir := make(map[string]string)
	for _, mf := range result.ModelFittingList() {
		unitDir[mf.ID] = mf.Unit.Dir
	}

	for _, key := range result.ContrastKeys() {
		for _, c := range result.Contrasts[key] {
			infs := result.Inferences[c.Estimation.ID]
			if len(infs) == 0 {
				tbl.Values(unitDir[key.ModelFittingID], c.Name, statLabel(c), c.StatisticMap.DegreesOfFreedom, nil, nil)
				continue
			}
			for _, inf := range infs {
				var clusters any
				if inf.Clusters != nil {
					clusters = len(inf.Clusters)
				}
				tbl.Values(unitDir[key.ModelFittingID], c.Name, statLabel(c), c.StatisticMap.DegreesOfFreedom,
					string(inf.Threshold.Mode()), clusters)
			}
		}
	}
	return tbl
}

func statLabel(c *model.Contrast) string {
	return fmt.Sprintf("%s%d", c.StatType, c.Number)
}
