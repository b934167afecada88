package feat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/nifti"
	"github.com/nidmfsl/cli/internal/testutil"
)

func parse(t *testing.T, dir string) (*Result, error) {
	t.Helper()
	return Parse(context.Background(), Options{FeatDir: dir})
}

func TestParse_FirstLevel(t *testing.T) {
	f := testutil.DefaultFSF()
	dir := t.TempDir()
	f = withOnsets(t, dir, f, 0.5, 0.8, 1.0)
	testutil.WriteFile(t, dir, "design.fsf", f.String())
	testutil.WriteFile(t, dir, "logs/feat4_post", postStatsLog)
	writeUnit(t, dir, f)

	res, err := parse(t, dir)
	require.NoError(t, err)

	assert.True(t, res.FirstLevel)
	assert.Equal(t, "FSL", res.Software.Name)
	assert.Equal(t, "6.00", res.Software.Version)
	assert.Equal(t, filepath.Join(res.FeatDir, "nidm"), res.ExportDir)

	mfs := res.ModelFittingList()
	require.Len(t, mfs, 1)
	mf := mfs[0]

	dm := mf.DesignMatrix
	assert.Equal(t, []string{"faces", "houses"}, dm.RegressorNames)
	assert.Equal(t, [2]int{3, 2}, dm.Shape)
	assert.Equal(t, "design.mat", dm.File)
	assert.Equal(t, model.EventRelatedDesign, dm.DesignType)
	assert.Equal(t, model.DoubleGammaHRF, dm.HRFModel)
	require.NotNil(t, dm.DriftModel)
	assert.Equal(t, 100.0, dm.DriftModel.CutOffPeriod)
	assert.Equal(t, model.GaussianRunningLineDrift, dm.DriftModel.Type)

	assert.True(t, mf.ErrorModel.VarianceHomogeneous)
	assert.Equal(t, model.SeriallyCorrelated, mf.ErrorModel.Dependence)
	assert.Equal(t, model.SpatiallyRegularized, mf.ErrorModel.DependenceSpatial)
	assert.True(t, mf.Data.GrandMeanScaling)
	assert.Equal(t, 10000.0, mf.Data.TargetIntensity)

	require.Len(t, mf.ParameterEstimates, 2)
	assert.Equal(t, 1, mf.ParameterEstimates[0].Number)
	assert.Equal(t, "stats/pe1.nii.gz", mf.ParameterEstimates[0].File)
	assert.Equal(t, "stats/sigmasquareds.nii.gz", mf.ResidualMeanSquares.File)
	require.NotNil(t, mf.GrandMean)
	assert.Equal(t, "mask.nii.gz", mf.GrandMean.MaskFile)

	assert.Equal(t, model.SubjectCoordinateSystem, mf.CoordinateSpace.System)
	assert.Equal(t, []int{2, 2, 2}, mf.CoordinateSpace.Dimensions)
	assert.Equal(t, "mm", mf.CoordinateSpace.Units)
}

func TestParse_ContrastsShareKey(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())

	res, err := parse(t, dir)
	require.NoError(t, err)

	mf := res.ModelFittingList()[0]
	pe1 := mf.ParameterEstimates[0].ID

	// [1 0] and [1 -1] both use only the first parameter estimate.
	keys := res.ContrastKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, mf.ID, keys[0].ModelFittingID)
	assert.Equal(t, []string{pe1}, keys[0].ParameterEstimateIDs())

	cons := res.Contrasts[keys[0]]
	require.Len(t, cons, 2)

	c := cons[1]
	assert.Equal(t, 2, c.Number)
	assert.Equal(t, "faces > houses", c.Name)
	assert.Equal(t, naming.StatT, c.StatType)
	assert.Equal(t, []float64{1, -1}, c.Weights.Values)
	assert.Equal(t, "_T002", c.Weights.Label)
	assert.Equal(t, "stats/cope2.nii.gz", c.ContrastMap.File)
	assert.Equal(t, "stats/varcope2.nii.gz", c.VarianceMap.File)
	assert.True(t, c.VarianceMap.IsVariance)
	assert.Equal(t, "stats/tstat2.nii.gz", c.StatisticMap.File)
	assert.Equal(t, "stats/zstat2.nii.gz", c.ZStatisticMap.File)
	assert.Equal(t, naming.StatZ, c.ZStatisticMap.StatType)
	assert.Equal(t, 42.0, c.StatisticMap.DegreesOfFreedom)
	assert.Equal(t, 42.0, c.ZStatisticMap.DegreesOfFreedom)
	assert.Equal(t, mf.CoordinateSpace.ID, c.ContrastMap.CoordinateSpaceID)
}

func TestParse_WeightExactlyOne(t *testing.T) {
	f := testutil.DefaultFSF()
	f.EVs = []testutil.EV{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	f.Contrasts = []testutil.Contrast{{Name: "mixed", Weights: []float64{1, -1, 2, 0}}}
	dir := firstLevel(t, f)

	res, err := parse(t, dir)
	require.NoError(t, err)

	mf := res.ModelFittingList()[0]
	keys := res.ContrastKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, []string{mf.ParameterEstimates[0].ID}, keys[0].ParameterEstimateIDs())
}

func TestParse_ClusterInference(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())

	res, err := parse(t, dir)
	require.NoError(t, err)

	infs := res.InferenceList()
	require.Len(t, infs, 2)

	inf := infs[0]
	con := res.ContrastList()[0]
	assert.Equal(t, con.Estimation.ID, inf.ContrastID)
	assert.Len(t, res.Inferences[con.Estimation.ID], 1)
	assert.Equal(t, "faces", inf.ContrastName)
	assert.Equal(t, res.Software.ID, inf.SoftwareID)

	stat, ok := model.StatThreshold(inf.Threshold)
	require.True(t, ok)
	assert.Equal(t, 2.3, stat)
	extentP, ok := model.ExtentPCorrected(inf.Threshold)
	require.True(t, ok)
	assert.Equal(t, 0.05, extentP)
	require.NotNil(t, inf.Extent)
	assert.Equal(t, 0.05, inf.Extent.PCorrected)

	require.NotNil(t, inf.PeakCriteria)
	require.NotNil(t, inf.PeakCriteria.MaxPeaks)
	assert.Equal(t, 3, *inf.PeakCriteria.MaxPeaks)
	assert.Equal(t, 5.0, inf.PeakCriteria.MinDistance)
	require.NotNil(t, inf.ClusterCriteria)
	require.NotNil(t, inf.ClusterCriteria.Connectivity)
	assert.Equal(t, 26, *inf.ClusterCriteria.Connectivity)

	assert.Nil(t, inf.DisplayMask)
	assert.Equal(t, "thresh_zstat1.nii.gz", inf.ExcursionSet.File)
	assert.Equal(t, "rendered_thresh_zstat1.png", inf.ExcursionSet.Visualisation)
	assert.Equal(t, "_T001", inf.ExcursionSet.Label)

	require.Len(t, inf.Clusters, 2)
	assert.Equal(t, 2, inf.Clusters[0].Number)
	assert.Equal(t, 120, inf.Clusters[0].Size)
	assert.Equal(t, 0.001, inf.Clusters[0].PFWER)
	assert.Equal(t, model.NewCoordinates(10, 11, 12), inf.Clusters[0].Coordinates)
	assert.Equal(t, model.NewCoordinates(-10, -11, -12), inf.Clusters[0].StdCoordinates)
	require.Len(t, inf.Clusters[0].Peaks, 2)
	assert.Equal(t, model.NewCoordinates(-13, -14, -15), inf.Clusters[0].Peaks[1].StdCoordinates)
	require.Len(t, inf.Clusters[1].Peaks, 1)
	assert.Equal(t, 1, inf.Clusters[1].Peaks[0].Index)

	ss := inf.SearchSpace
	assert.Equal(t, "mask.nii.gz", ss.File)
	assert.Equal(t, 1000, ss.VolumeInVoxels)
	assert.Equal(t, 8000.0, ss.VolumeInUnits)
	assert.Equal(t, 64.0, ss.VolumeInResels)
	assert.Equal(t, 15.625, ss.ReselSizeInVoxels)
	assert.Equal(t, 0.05, ss.DLH)
	assert.True(t, ss.RandomFieldStationarity)
	assert.Equal(t, model.NewCoordinates(2.5, 2.6, 2.4), ss.NoiseFWHMVoxels)
	assert.Equal(t, model.NewCoordinates(5, 5.2, 4.8), ss.NoiseFWHMUnits)
}

func TestParse_VoxelwiseThresholds(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantMode model.ThresholdMode
	}{
		{"uncorrected", 1, model.VoxelUncorrectedMode},
		{"corrected", 2, model.VoxelCorrectedMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.DefaultFSF()
			f.Thresh = tt.code
			f.ProbThresh = 0.001
			dir := firstLevel(t, f)

			res, err := parse(t, dir)
			require.NoError(t, err)

			for _, inf := range res.InferenceList() {
				assert.Equal(t, tt.wantMode, inf.Threshold.Mode())

				unc, okUnc := model.PUncorrected(inf.Threshold)
				corr, okCorr := model.PCorrected(inf.Threshold)
				_, okStat := model.StatThreshold(inf.Threshold)
				assert.NotEqual(t, okUnc, okCorr)
				assert.False(t, okStat)
				assert.Equal(t, 0.001, unc+corr)

				assert.Nil(t, inf.Extent)
				assert.Nil(t, inf.PeakCriteria)
				assert.Nil(t, inf.ClusterCriteria)
				assert.Nil(t, inf.Clusters)
			}
		})
	}
}

func TestParse_UnsupportedThresholds(t *testing.T) {
	for _, code := range []int{0, 4} {
		f := testutil.DefaultFSF()
		f.Thresh = code
		dir := firstLevel(t, f)

		_, err := parse(t, dir)
		assert.ErrorIs(t, err, oerrors.ErrUnsupported, "thresh %d", code)
	}
}

func TestParse_ContrastMasking(t *testing.T) {
	f := testutil.DefaultFSF()
	f.ConMasks = map[string]int{"1_1": 1, "1_2": 0, "2_1": 0}
	dir := firstLevel(t, f)

	res, err := parse(t, dir)
	require.NoError(t, err)

	for _, inf := range res.InferenceList() {
		require.NotNil(t, inf.DisplayMask)
		assert.Equal(t, "mask.nii.gz", inf.DisplayMask.File)
		assert.Equal(t, inf.StatNum, inf.DisplayMask.StatNum)
	}
}

func TestParse_MultiContrastMaskingUnsupported(t *testing.T) {
	f := testutil.DefaultFSF()
	f.ConMasks = map[string]int{"1_2": 1}
	dir := firstLevel(t, f)

	_, err := parse(t, dir)
	assert.ErrorIs(t, err, oerrors.ErrUnsupported)
}

func TestParse_NoPostStatsLog(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	require.NoError(t, os.Remove(filepath.Join(dir, "logs", "feat4_post")))

	res, err := parse(t, dir)
	require.NoError(t, err)

	inf := res.InferenceList()[0]
	require.NotNil(t, inf.PeakCriteria)
	assert.Nil(t, inf.PeakCriteria.MaxPeaks)
	assert.Equal(t, 0.0, inf.PeakCriteria.MinDistance)
	require.NotNil(t, inf.ClusterCriteria)
	assert.Nil(t, inf.ClusterCriteria.Connectivity)
}

func TestParse_DesignType(t *testing.T) {
	tests := []struct {
		name      string
		durations []float64
		want      model.DesignType
	}{
		{"event related", []float64{0.5, 0.8, 1.0}, model.EventRelatedDesign},
		{"block based", []float64{4, 4, 6}, model.BlockBasedDesign},
		{"mixed", []float64{0.5, 4, 1}, model.MixedDesign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			f := withOnsets(t, dir, testutil.DefaultFSF(), tt.durations...)
			testutil.WriteFile(t, dir, "design.fsf", f.String())
			writeUnit(t, dir, f)

			res, err := parse(t, dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.ModelFittingList()[0].DesignMatrix.DesignType)
		})
	}
}

func TestParse_TemporalDerivatives(t *testing.T) {
	f := testutil.DefaultFSF()
	f.EVs[0].Derivative = true
	dir := firstLevel(t, f)

	res, err := parse(t, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"faces", "faces*temporal_derivative", "houses"},
		res.ModelFittingList()[0].DesignMatrix.RegressorNames)
}

func TestParse_UnsupportedHRF(t *testing.T) {
	f := testutil.DefaultFSF()
	f.Convolve = 7
	dir := firstLevel(t, f)

	_, err := parse(t, dir)
	assert.ErrorIs(t, err, oerrors.ErrUnsupported)
}

func TestParse_SecondLevel(t *testing.T) {
	dir := secondLevel(t, groupFSF(), 2)

	res, err := parse(t, dir)
	require.NoError(t, err)

	assert.False(t, res.FirstLevel)
	require.Len(t, res.Units, 2)
	mfs := res.ModelFittingList()
	require.Len(t, mfs, 2)
	assert.NotEqual(t, mfs[0].ID, mfs[1].ID)

	mf := mfs[0]
	assert.Equal(t, "cope1.feat", mf.Unit.Dir)
	assert.Empty(t, mf.DesignMatrix.DesignType)
	assert.Nil(t, mf.DesignMatrix.DriftModel)
	assert.False(t, mf.ErrorModel.VarianceHomogeneous)
	assert.Equal(t, model.IndependentParameters, mf.ErrorModel.Dependence)
	assert.Empty(t, mf.ErrorModel.DependenceSpatial)
	assert.Equal(t, model.MNI152NonLinear6thGeneration, mf.CoordinateSpace.System)
	assert.Equal(t, "cope1.feat/stats/calculated_sigmasquareds.nii.gz", mf.ResidualMeanSquares.File)

	// Every cope folder has contrast 1; each links to its own unit.
	assert.Len(t, res.ContrastKeys(), 2)
	infs := res.InferenceList()
	require.Len(t, infs, 2)
	assert.NotEqual(t, infs[0].ContrastID, infs[1].ContrastID)
	assert.Equal(t, "", infs[0].ExcursionSet.Label)
}

func TestParse_SecondLevelResidualsAreSummed(t *testing.T) {
	dir := secondLevel(t, groupFSF(), 1)
	path := filepath.Join(dir, "cope1.feat", "stats", "calculated_sigmasquareds.nii.gz")

	for run := 0; run < 2; run++ {
		_, err := parse(t, dir)
		require.NoError(t, err)

		img, err := nifti.Read(path)
		require.NoError(t, err)
		require.Len(t, img.Data, 8)
		for i, v := range img.Data {
			assert.InDelta(t, float64(i+1)+0.5, v, 1e-6)
		}
	}
}

func TestParse_AlternateReference(t *testing.T) {
	f := groupFSF()
	f.AlternateReference = true
	dir := secondLevel(t, f, 1)

	res, err := parse(t, dir)
	require.NoError(t, err)
	assert.Equal(t, model.StandardizedCoordinateSystem, res.ModelFittingList()[0].CoordinateSpace.System)
}

func TestParse_MissingArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		remove  string
		wantErr error
	}{
		{"design matrix", "design.mat", oerrors.ErrNotFound},
		{"degrees of freedom", "stats/dof", oerrors.ErrNotFound},
		{"design file", "design.fsf", oerrors.ErrNotFound},
		{"residuals", "stats/sigmasquareds.nii.gz", oerrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := firstLevel(t, testutil.DefaultFSF())
			require.NoError(t, os.Remove(filepath.Join(dir, tt.remove)))

			_, err := parse(t, dir)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_GrandMeanOptional(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	require.NoError(t, os.Remove(filepath.Join(dir, "mean_func.nii.gz")))

	res, err := parse(t, dir)
	require.NoError(t, err)
	assert.Nil(t, res.ModelFittingList()[0].GrandMean)
}

func TestParse_ClusterWithoutPeaks(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	testutil.WriteTable(t, dir, "lmax_zstat1.txt", peakHeader, [][]float64{{2, 4.5, 10, 11, 12}})
	testutil.WriteTable(t, dir, "lmax_zstat1_std.txt", peakHeader, [][]float64{{2, 4.5, -10, -11, -12}})

	_, err := parse(t, dir)
	assert.ErrorIs(t, err, oerrors.ErrIntegrity)
}

func TestParse_PeaksWithoutClusterTable(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	require.NoError(t, os.Remove(filepath.Join(dir, "cluster_zstat1.txt")))
	require.NoError(t, os.Remove(filepath.Join(dir, "cluster_zstat1_std.txt")))

	_, err := parse(t, dir)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestParse_DeterministicIdentities(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	copied := testutil.CopyDir(t, dir)

	a, err := parse(t, dir)
	require.NoError(t, err)
	b, err := parse(t, copied)
	require.NoError(t, err)

	assert.Equal(t, a.ModelFittingList()[0].ID, b.ModelFittingList()[0].ID)
	assert.Equal(t, a.ContrastKeys(), b.ContrastKeys())
	assert.Equal(t, a.InferenceList()[1].ID, b.InferenceList()[1].ID)
}

func TestParse_Cancelled(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, Options{FeatDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_NotADirectory(t *testing.T) {
	_, err := parse(t, filepath.Join(t.TempDir(), "missing.feat"))
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestGraph(t *testing.T) {
	dir := firstLevel(t, testutil.DefaultFSF())
	res, err := parse(t, dir)
	require.NoError(t, err)

	g := res.Graph()
	assert.Equal(t, res.Software, g.Software)
	require.Len(t, g.ModelFittings, 1)
	require.Len(t, g.Contrasts, 1)
	assert.Len(t, g.Contrasts[0].Contrasts, 2)
	require.Len(t, g.Inferences, 2)
	assert.Equal(t, res.ContrastList()[0].Estimation.ID, g.Inferences[0].ContrastEstimationID)
}
