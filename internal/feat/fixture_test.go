package feat

import "github.com/nidmfsl/cli/internal/testutil"

const postStatsLog = testutil.PostStatsLog

var (
	peakHeader    = testutil.PeakHeader
	voxelClusters = testutil.VoxelClusters
	stdClusters   = testutil.StdClusters
	voxelPeaks    = testutil.VoxelPeaks
	stdPeaks      = testutil.StdPeaks
	writeUnit     = testutil.WriteUnit
	firstLevel    = testutil.FirstLevelFEAT
	secondLevel   = testutil.SecondLevelFEAT
	groupFSF      = testutil.GroupFSF
	withOnsets    = testutil.WithOnsets
)
