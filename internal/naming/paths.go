package naming

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Fixed file names inside a FEAT directory.
const (
	DesignFSF        = "design.fsf"
	DesignMat        = "design.mat"
	DesignImage      = "design.png"
	MaskImage        = "mask.nii.gz"
	MeanFuncImage    = "mean_func.nii.gz"
	StatsDirName     = "stats"
	DOFFile          = "dof"
	SmoothnessFile   = "smoothness"
	SigmaSquareds    = "sigmasquareds.nii.gz"
	GroupVariance    = "mean_random_effects_var1.nii.gz"
	SubjectVariance  = "varcope1.nii.gz"
	CalculatedSigma2 = "calculated_sigmasquareds.nii.gz"
	LogsDirName      = "logs"
	PostStatsLog     = "feat4_post"
	StatsLog         = "feat3_stats"
	ThreshGlob       = "thresh_z*.nii.gz"
	CopeDirGlob      = "cope*.feat"
)

// StatsDir returns the stats directory of an analysis unit.
func StatsDir(unitDir string) string {
	return filepath.Join(unitDir, StatsDirName)
}

// CopeFile returns the path of the contrast map of contrast n.
func CopeFile(statsDir string, n int) string {
	return filepath.Join(statsDir, "cope"+strconv.Itoa(n)+ImageExt)
}

// VarCopeFile returns the path of the contrast variance map of contrast n.
func VarCopeFile(statsDir string, n int) string {
	return filepath.Join(statsDir, "varcope"+strconv.Itoa(n)+ImageExt)
}

// StatFile returns the path of the t- or F-statistic map (tstat<N> / fstat<N>).
func StatFile(statsDir string, ref StatRef) string {
	return filepath.Join(statsDir, strings.ToLower(string(ref.Type))+"stat"+strconv.Itoa(ref.Number)+ImageExt)
}

// ZStatFile returns the path of the z-statistic map (zstat<N> / zfstat<N>).
func ZStatFile(statsDir string, ref StatRef) string {
	return filepath.Join(statsDir, ref.String()+ImageExt)
}

// ThreshFile returns the path of the excursion set image.
func ThreshFile(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "thresh_"+ref.String()+ImageExt)
}

// RenderedThreshFile returns the path of the excursion set visualisation.
func RenderedThreshFile(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "rendered_thresh_"+ref.String()+".png")
}

// ClusterTable returns the path of the cluster table in voxel space.
func ClusterTable(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "cluster_"+ref.String()+".txt")
}

// ClusterStdTable returns the path of the cluster table in standard space.
func ClusterStdTable(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "cluster_"+ref.String()+"_std.txt")
}

// PeakTable returns the path of the local maxima table in voxel space.
func PeakTable(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "lmax_"+ref.String()+".txt")
}

// PeakStdTable returns the path of the local maxima table in standard space.
func PeakStdTable(unitDir string, ref StatRef) string {
	return filepath.Join(unitDir, "lmax_"+ref.String()+"_std.txt")
}
