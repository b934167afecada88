package fsf

import (
	"fmt"
	"regexp"
)

// Value patterns for design.fsf settings.
const (
	intValue    = `(?P<info>-?\d+)`
	floatValue  = `(?P<info>[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)`
	stringValue = `"(?P<info>[^"]*)"`
)

// setting builds the pattern for a `set fmri(<key>) <value>` line.
func setting(key, value string) string {
	return `set fmri\(` + regexp.QuoteMeta(key) + `\)\s+` + value
}

// Patterns for fixed design.fsf keys.
var (
	// Level is 1 for first-level and 2 for higher-level analyses.
	Level = setting("level", intValue)

	// Version is the FEAT version that wrote the file.
	Version = `set fmri\(version\)\s+(?P<info>\d+\.?\d*)`

	// ThreshType selects the thresholding mode: 0 none, 1 uncorrected, 2 voxel, 3 cluster.
	ThreshType = setting("thresh", intValue)

	// ProbThresh is the p threshold used by every thresholding mode.
	ProbThresh = setting("prob_thresh", floatValue)

	// ZThresh is the cluster-forming Z threshold.
	ZThresh = setting("z_thresh", floatValue)

	// Convolve1 is the HRF convolution of the first EV.
	Convolve1 = setting("convolve1", intValue)

	// HighPassCutoff is the temporal filtering cut-off in seconds.
	HighPassCutoff = setting("paradigm_hp", floatValue)

	// ContrastMask11 toggles masking of contrast 1 by contrast 1.
	ContrastMask11 = setting("conmask1_1", intValue)

	// RegStandardYN toggles registration to a standard template.
	RegStandardYN = setting("regstandard_yn", intValue)

	// AlternateReferenceYN toggles a user supplied reference template.
	AlternateReferenceYN = setting("alternateReference_yn", intValue)

	// RegStandard is the path of the standard template.
	RegStandard = setting("regstandard", stringValue)
)

// Multi-match patterns with named groups.
const (
	// EVTitles matches every `evtitle<num>` declaration.
	EVTitles = `set fmri\(evtitle(?P<num>\d+)\)\s*"(?P<name>[^"]*)"`

	// CustomOnsets matches every 3-column onset file declaration.
	CustomOnsets = `set fmri\(custom(?P<num>\d+)\)\s*"(?P<file>[^"]*)"`

	// ContrastMasks matches every `conmask<i>_<j>` flag.
	ContrastMasks = `set fmri\(conmask(?P<i>\d+)_(?P<j>\d+)\)\s+(?P<info>\d+)`
)

// TemporalDerivative returns the pattern of the temporal derivative flag of an EV.
func TemporalDerivative(ev int) string {
	return setting(fmt.Sprintf("deriv_yn%d", ev), intValue)
}

// ContrastName returns the pattern of the name of a real contrast.
func ContrastName(con int) string {
	return setting(fmt.Sprintf("conname_real.%d", con), stringValue)
}

// ContrastWeights returns the pattern matching every weight of a real contrast.
// Groups: "idx" is the 1-based regressor position, "info" is the weight.
func ContrastWeights(con int) string {
	return `set fmri\(con_real` + fmt.Sprint(con) + `\.(?P<idx>\d+)\)\s+` + floatValue
}

// Smoothness estimate patterns.
const (
	// SmoothnessVerbose matches the output of `smoothest -V`.
	SmoothnessVerbose = `FWHMx = (?P<fwhmx_vx>\d+\.?\d*) voxels, ` +
		`FWHMy = (?P<fwhmy_vx>\d+\.?\d*) voxels, ` +
		`FWHMz = (?P<fwhmz_vx>\d+\.?\d*) voxels\n` +
		`FWHMx = (?P<fwhmx_mm>\d+\.?\d*) mm, ` +
		`FWHMy = (?P<fwhmy_mm>\d+\.?\d*) mm, ` +
		`FWHMz = (?P<fwhmz_mm>\d+\.?\d*) mm\n` +
		`DLH (?P<dlh>\d+\.?\d*) voxels\^-3\n` +
		`VOLUME (?P<volume>\d+) voxels\n` +
		`RESELS (?P<resels>\d+\.?\d*) voxels per resel`

	// SmoothestCommand matches the smoothest invocation in the stats log.
	SmoothestCommand = `(?P<info>smoothest[^\n]*)`
)
