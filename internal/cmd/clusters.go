package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nidmfsl/cli/internal/export"
	"github.com/nidmfsl/cli/internal/output"
)

var clustersXLSXFlag string

// NewClustersCmd creates the clusters command.
func NewClustersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters <featdir>",
		Short: "Print cluster and peak tables",
		Long: `Print the clusters and peaks of every cluster-extent inference.

Coordinates are in voxels; the (std) columns hold standard-space coordinates
when FEAT wrote the standard-space tables.

Examples:
  nidmfsl clusters analysis.feat
  nidmfsl clusters group.gfeat --xlsx clusters.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runClusters,
	}

	cmd.Flags().StringVar(&clustersXLSXFlag, "xlsx", "", "Also write the tables to an Excel workbook")

	return cmd
}

func runClusters(cmd *cobra.Command, args []string) error {
	result, err := parseFeatDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	infs := result.InferenceList()
	clusterRows := export.ClusterRows(infs)
	peakRows := export.PeakRows(infs)

	out := cmd.OutOrStdout()
	if len(clusterRows) == 0 {
		fmt.Fprintln(out, "No cluster-extent inferences found.")
	} else {
		fmt.Fprintln(out, rowsTable(export.ClusterHeaders, clusterRows).String())
		fmt.Fprintln(out, rowsTable(export.PeakHeaders, peakRows).String())
	}

	if clustersXLSXFlag != "" {
		if err := export.WriteWorkbook(clustersXLSXFlag, infs); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), output.FormatCheckmark("workbook written to "+output.StyleNoun.Render(clustersXLSXFlag)))
	}

	return nil
}

func rowsTable(headers []string, rows [][]any) *output.Table {
	tbl := output.NewTable(headers...)
	for _, row := range rows {
		tbl.Values(row...)
	}
	return tbl
}
