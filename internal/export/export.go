// Package export writes cluster and peak tables of parsed inferences.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nidmfsl/cli/internal/model"
)

// Sheet names of the cluster workbook.
const (
	ClusterSheet = "Clusters"
	PeakSheet    = "Peaks"
)

// ClusterHeaders are the column titles of the cluster sheet.
var ClusterHeaders = []string{"Contrast", "Stat", "Cluster", "Voxels", "P (FWE)", "X", "Y", "Z", "X (std)", "Y (std)", "Z (std)"}

// PeakHeaders are the column titles of the peak sheet.
var PeakHeaders = []string{"Contrast", "Stat", "Cluster", "Peak", "Z", "X", "Y", "Z", "X (std)", "Y (std)", "Z (std)"}

// ClusterRows flattens the clusters of every inference. Absent coordinates are nil.
func ClusterRows(infs []*model.Inference) [][]any {
	var rows [][]any
	for _, inf := range infs {
		for _, c := range inf.Clusters {
			row := []any{inf.ContrastName, inf.StatNum, c.Number, c.Size, c.PFWER}
			row = append(row, coords(c.Coordinates)...)
			row = append(row, coords(c.StdCoordinates)...)
			rows = append(rows, row)
		}
	}
	return rows
}

// PeakRows flattens the peaks of every cluster of every inference.
func PeakRows(infs []*model.Inference) [][]any {
	var rows [][]any
	for _, inf := range infs {
		for _, c := range inf.Clusters {
			for _, p := range c.Peaks {
				row := []any{inf.ContrastName, p.StatNum, p.ClusterNumber, p.Index, p.EquivZ}
				row = append(row, coords(p.Coordinates)...)
				row = append(row, coords(p.StdCoordinates)...)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func coords(c *model.Coordinates) []any {
	if c == nil {
		return []any{nil, nil, nil}
	}
	return []any{c[0], c[1], c[2]}
}

// WriteWorkbook stores the cluster and peak tables in an xlsx file.
func WriteWorkbook(path string, infs []*model.Inference) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the cluster sheet.
	if err := f.SetSheetName("Sheet1", ClusterSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(PeakSheet); err != nil {
		return err
	}

	if err := writeSheet(f, ClusterSheet, ClusterHeaders, ClusterRows(infs)); err != nil {
		return err
	}
	if err := writeSheet(f, PeakSheet, PeakHeaders, PeakRows(infs)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
