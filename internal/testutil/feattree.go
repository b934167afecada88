package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
)

// ImageDims is the grid of every synthetic image.
var ImageDims = []int{2, 2, 2}

// VerboseSmoothness is a stats/smoothness file written by smoothest -V.
const VerboseSmoothness = `FWHMx = 2.5 voxels, FWHMy = 2.6 voxels, FWHMz = 2.4 voxels
FWHMx = 5 mm, FWHMy = 5.2 mm, FWHMz = 4.8 mm
DLH 0.05 voxels^-3
VOLUME 1000 voxels
RESELS 15.625 voxels per resel
`

// PlainSmoothness is a stats/smoothness file without FWHM estimates.
const PlainSmoothness = "DLH 0.05\nVOLUME 1000\nRESELS 15.625\n"

// PostStatsLog is a logs/feat4_post with cluster options.
const PostStatsLog = `/usr/share/fsl/bin/cluster -i thresh_zstat1 -c stats/cope1 -t 2.3 -p 0.05 -d 0.05 --volume=1000 --othresh=thresh_zstat1 -o cluster_mask_zstat1 --connectivity=26 --mm --olmax=lmax_zstat1_std.txt --scalarname=Z --num=3 --peakdist=5 > cluster_zstat1_std.txt
`

// Cluster and peak table headers as FSL writes them.
var (
	ClusterHeader = []string{"Cluster Index\tVoxels\tP\t-log10(P)\tZ-MAX\tZ-MAX X\tZ-MAX Y\tZ-MAX Z\tZ-COG X\tZ-COG Y\tZ-COG Z\tCOPE-MAX\tCOPE-MAX X\tCOPE-MAX Y\tCOPE-MAX Z\tCOPE-MEAN"}
	PeakHeader    = []string{"Cluster Index\tZ\tx\ty\tz\t"}
)

// ClusterRow builds a 16 column FSL cluster table row.
func ClusterRow(id, size, p, x, y, z float64) []float64 {
	return []float64{id, size, p, 1.3, 4.5, 1, 2, 3, x, y, z, 300, 1, 2, 3, 120}
}

// VoxelClusters are listed in descending cluster index order.
func VoxelClusters() [][]float64 {
	return [][]float64{
		ClusterRow(2, 120, 0.001, 10, 11, 12),
		ClusterRow(1, 40, 0.03, 20, 21, 22),
	}
}

// StdClusters mirror VoxelClusters in standard space.
func StdClusters() [][]float64 {
	return [][]float64{
		ClusterRow(2, 120, 0.001, -10, -11, -12),
		ClusterRow(1, 40, 0.03, -20, -21, -22),
	}
}

// VoxelPeaks hold two peaks for cluster 2 and one for cluster 1.
func VoxelPeaks() [][]float64 {
	return [][]float64{
		{2, 4.5, 10, 11, 12},
		{2, 4.1, 13, 14, 15},
		{1, 3.2, 20, 21, 22},
	}
}

// StdPeaks mirror VoxelPeaks in standard space.
func StdPeaks() [][]float64 {
	return [][]float64{
		{2, 4.5, -10, -11, -12},
		{2, 4.1, -13, -14, -15},
		{1, 3.2, -20, -21, -22},
	}
}

// WriteUnit writes the result files of one analysis unit.
func WriteUnit(t *testing.T, unitDir string, f FSF) {
	t.Helper()
	voxels := make([]float64, 8)
	for i := range voxels {
		voxels[i] = float64(i + 1)
	}

	rows := make([][]float64, 3)
	for i := range rows {
		rows[i] = make([]float64, len(f.EVs))
		for j := range rows[i] {
			rows[i][j] = float64(i*len(f.EVs) + j)
		}
	}
	header := []string{
		fmt.Sprintf("/NumWaves\t%d", len(f.EVs)),
		fmt.Sprintf("/NumPoints\t%d", len(rows)),
		"/PPheights\t1\t1",
		"",
		"/Matrix",
	}
	WriteTable(t, unitDir, "design.mat", header, rows)

	for i := range f.EVs {
		WriteImage(t, unitDir, fmt.Sprintf("stats/pe%d.nii.gz", i+1), ImageDims, voxels)
	}
	WriteFile(t, unitDir, "stats/dof", "42\n")
	WriteFile(t, unitDir, "stats/smoothness", VerboseSmoothness)
	WriteImage(t, unitDir, "mask.nii.gz", ImageDims, voxels)
	WriteImage(t, unitDir, "mean_func.nii.gz", ImageDims, voxels)

	if f.Level == 1 {
		WriteImage(t, unitDir, "stats/sigmasquareds.nii.gz", ImageDims, voxels)
	} else {
		half := make([]float64, 8)
		for i := range half {
			half[i] = 0.5
		}
		WriteImage(t, unitDir, "stats/mean_random_effects_var1.nii.gz", ImageDims, voxels)
		WriteImage(t, unitDir, "stats/varcope1.nii.gz", ImageDims, half)
	}

	for i := range f.Contrasts {
		n := i + 1
		WriteImage(t, unitDir, fmt.Sprintf("thresh_zstat%d.nii.gz", n), ImageDims, voxels)
		WriteTable(t, unitDir, fmt.Sprintf("cluster_zstat%d.txt", n), ClusterHeader, VoxelClusters())
		WriteTable(t, unitDir, fmt.Sprintf("cluster_zstat%d_std.txt", n), ClusterHeader, StdClusters())
		WriteTable(t, unitDir, fmt.Sprintf("lmax_zstat%d.txt", n), PeakHeader, VoxelPeaks())
		WriteTable(t, unitDir, fmt.Sprintf("lmax_zstat%d_std.txt", n), PeakHeader, StdPeaks())
	}
}

// FirstLevelFEAT writes a complete first-level FEAT directory and returns its path.
func FirstLevelFEAT(t *testing.T, f FSF) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "design.fsf", f.String())
	WriteFile(t, dir, "logs/feat4_post", PostStatsLog)
	WriteUnit(t, dir, f)
	return dir
}

// SecondLevelFEAT writes a higher-level FEAT directory with the given number of
// cope folders, each holding one contrast.
func SecondLevelFEAT(t *testing.T, f FSF, copes int) string {
	t.Helper()
	dir := t.TempDir()
	f.Level = 2
	WriteFile(t, dir, "design.fsf", f.String())
	WriteFile(t, dir, "logs/feat4_post", PostStatsLog)
	for i := 1; i <= copes; i++ {
		WriteUnit(t, filepath.Join(dir, fmt.Sprintf("cope%d.feat", i)), f)
	}
	return dir
}

// GroupFSF is a single-EV, single-contrast group mean design.
func GroupFSF() FSF {
	f := DefaultFSF()
	f.Level = 2
	f.RegStandard = true
	f.EVs = []EV{{Title: "group mean"}}
	f.Contrasts = []Contrast{{Name: "mean", Weights: []float64{1}}}
	return f
}

// WithOnsets adds custom onset files with the given durations to every EV.
func WithOnsets(t *testing.T, dir string, f FSF, durations ...float64) FSF {
	t.Helper()
	rows := make([][]float64, len(durations))
	for i, d := range durations {
		rows[i] = []float64{float64(i * 20), d, 1}
	}
	evs := make([]EV, len(f.EVs))
	for i, ev := range f.EVs {
		name := fmt.Sprintf("onsets/ev%d.txt", i+1)
		WriteTable(t, dir, name, nil, rows)
		ev.OnsetFile = name
		evs[i] = ev
	}
	f.EVs = evs
	return f
}
