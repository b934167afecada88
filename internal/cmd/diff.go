package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/feat"
	"github.com/nidmfsl/cli/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <featdir-a> <featdir-b>",
		Short: "Compare the records of two FEAT directories",
		Long: `Parse two FEAT directories and compare their records.

Records are matched by analysis unit and map file relative to each FEAT
directory, so a copied or re-run analysis lines up with the original.

Examples:
  nidmfsl diff run1.feat run2.feat`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	left, err := parseFeatDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	right, err := parseFeatDir(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	useColor := output.IsTTY()
	result, err := output.DiffItems(graphItems(left), graphItems(right), useColor)
	if err != nil {
		return err
	}

	styles := output.NoColorStyles()
	if useColor {
		styles = output.GetStyles()
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderDiff(result, styles))
	return nil
}

// graphItems keys every record by its location inside the FEAT directory.
func graphItems(result *feat.Result) map[string]any {
	items := map[string]any{
		"software": result.Software,
	}

	for _, mf := range result.ModelFittingList() {
		items["model/"+mf.Unit.Dir] = mf
	}
	for _, c := range result.ContrastList() {
		items["contrast/"+c.ZStatisticMap.File] = c
	}
	for _, inf := range result.InferenceList() {
		items["inference/"+inf.ExcursionSet.File] = inf
	}

	return items
}
