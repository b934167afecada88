package feat

import (
	"fmt"
	"strconv"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/table"
)

// Column layout of FSL cluster tables (cluster_zstat<N>.txt and _std.txt).
const (
	clusterIDCol   = 0
	clusterSizeCol = 1
	clusterPCol    = 2
	clusterCOGCol  = 8
)

// Column layout of FSL local maxima tables (lmax_zstat<N>.txt and _std.txt).
const (
	peakClusterCol = 0
	peakZCol       = 1
	peakCoordCol   = 2
)

// tableHeaderRows is the column title line of cluster and lmax tables.
const tableHeaderRows = 1

// clusterTables are the optional cluster and peak tables of one statistic.
type clusterTables struct {
	clusters, clustersStd *table.Table
	peaks, peaksStd       *table.Table
}

func loadClusterTables(unitDir string, ref naming.StatRef) (clusterTables, error) {
	var ct clusterTables
	var err error
	if ct.clusters, err = table.LoadOptional(naming.ClusterTable(unitDir, ref), tableHeaderRows); err != nil {
		return ct, err
	}
	if ct.clustersStd, err = table.LoadOptional(naming.ClusterStdTable(unitDir, ref), tableHeaderRows); err != nil {
		return ct, err
	}
	if ct.peaks, err = table.LoadOptional(naming.PeakTable(unitDir, ref), tableHeaderRows); err != nil {
		return ct, err
	}
	if ct.peaksStd, err = table.LoadOptional(naming.PeakStdTable(unitDir, ref), tableHeaderRows); err != nil {
		return ct, err
	}
	return ct, nil
}

// mergeClusters reads the cluster and peak tables of a statistic and returns its
// clusters in table order, each with its peaks.
func mergeClusters(unitDir string, ref naming.StatRef) ([]model.Cluster, error) {
	ct, err := loadClusterTables(unitDir, ref)
	if err != nil {
		return nil, err
	}
	return MergeTables(ct.clusters, ct.clustersStd, ct.peaks, ct.peaksStd, ref.Number)
}

// MergeTables joins voxel and standard space cluster and peak tables. Any table
// may be nil. When both variants of a table are present they are joined row by
// row and both coordinate sets are filled; otherwise only the present one is.
func MergeTables(clusters, clustersStd, peaks, peaksStd *table.Table, statNum int) ([]model.Cluster, error) {
	grouped, err := groupPeaks(peaks, peaksStd, statNum)
	if err != nil {
		return nil, err
	}

	rows, voxelOffset, stdOffset, err := joined(clusters, clustersStd, clusterCOGCol)
	if err != nil {
		return nil, err
	}

	out := []model.Cluster{}
	if rows == nil {
		if len(grouped) > 0 {
			return nil, oerrors.NewNotFoundError("local maxima table has no cluster table",
				peakTablePath(peaks, peaksStd), "expected cluster_<stat>.txt next to it")
		}
		return out, nil
	}
	for i := 0; i < rows.Rows(); i++ {
		row := rows.Row(i)
		id := int(row[clusterIDCol])
		clusterPeaks, ok := grouped[id]
		if !ok {
			return nil, oerrors.NewIntegrityError("cluster has no peaks", map[string]string{
				"Cluster": strconv.Itoa(id),
				"Table":   rows.Path(),
			})
		}
		out = append(out, model.Cluster{
			Number:         id,
			Size:           int(row[clusterSizeCol]),
			PFWER:          row[clusterPCol],
			Coordinates:    triple(row, voxelOffset),
			StdCoordinates: triple(row, stdOffset),
			Peaks:          clusterPeaks,
		})
		delete(grouped, id)
	}
	if len(grouped) > 0 {
		return nil, oerrors.NewIntegrityError("peaks reference a cluster missing from the cluster table", map[string]string{
			"Cluster": strconv.Itoa(naming.SortedNumbers(grouped)[0]),
			"Table":   peakTablePath(peaks, peaksStd),
		})
	}
	return out, nil
}

func peakTablePath(peaks, peaksStd *table.Table) string {
	if peaks != nil {
		return peaks.Path()
	}
	return peaksStd.Path()
}

// groupPeaks groups peaks by cluster id. Peak indices count from 1 in table
// order and restart whenever the cluster id changes.
func groupPeaks(peaks, peaksStd *table.Table, statNum int) (map[int][]model.Peak, error) {
	rows, voxelOffset, stdOffset, err := joined(peaks, peaksStd, peakCoordCol)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int][]model.Peak)
	if rows == nil {
		return grouped, nil
	}

	prev, index := 0, 0
	for i := 0; i < rows.Rows(); i++ {
		row := rows.Row(i)
		id := int(row[peakClusterCol])
		if i == 0 || id != prev {
			index = 1
		}
		grouped[id] = append(grouped[id], model.Peak{
			Index:          index,
			Coordinates:    triple(row, voxelOffset),
			StdCoordinates: triple(row, stdOffset),
			EquivZ:         row[peakZCol],
			ClusterNumber:  id,
			StatNum:        statNum,
		})
		prev = id
		index++
	}
	return grouped, nil
}

// joined returns the voxel and standard tables stacked side by side, with the
// column offsets of each coordinate triple. An absent variant has offset -1.
// Both absent returns a nil table.
func joined(voxel, std *table.Table, coordCol int) (*table.Table, int, int, error) {
	for _, t := range []*table.Table{voxel, std} {
		if t != nil {
			if err := checkWidth(t, coordCol); err != nil {
				return nil, 0, 0, err
			}
		}
	}

	switch {
	case voxel != nil && std != nil:
		t, err := table.ColumnStack(voxel, std)
		if err != nil {
			return nil, 0, 0, err
		}
		return t, coordCol, voxel.Cols() + coordCol, nil
	case voxel != nil:
		return voxel, coordCol, -1, nil
	case std != nil:
		return std, -1, coordCol, nil
	default:
		return nil, -1, -1, nil
	}
}

func checkWidth(t *table.Table, coordCol int) error {
	if t.Rows() > 0 && t.Cols() < coordCol+3 {
		return oerrors.NewParseError(fmt.Sprintf("table has %d columns, expected at least %d", t.Cols(), coordCol+3),
			t.Path(), "")
	}
	return nil
}

func triple(row []float64, offset int) *model.Coordinates {
	if offset < 0 {
		return nil
	}
	return model.NewCoordinates(row[offset], row[offset+1], row[offset+2])
}
