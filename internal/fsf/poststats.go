package fsf

import "strconv"

// Post-stats log option patterns, as written on the `cluster` command line.
const (
	numPeaksLong  = `\s--num=(?P<info>\d+)`
	numPeaksShort = `\s-n=(?P<info>\d+)`
	peakDistance  = `\s--peakdist=(?P<info>\d+(?:\.\d+)?)`
	connectivity  = `\s--connectivity=(?P<info>\d+)`
)

// DefaultPeakDistance is the cluster tool default minimum distance between peaks.
const DefaultPeakDistance = 0.0

// NumPeaks returns the maximum number of peaks per cluster from a post-stats log.
// A nil log or an unspecified limit yields ok == false.
func NumPeaks(log *Document) (int, bool) {
	if log == nil {
		return 0, false
	}
	for _, pattern := range []string{numPeaksLong, numPeaksShort} {
		if value, ok := log.Lookup(pattern); ok {
			if n, err := strconv.Atoi(value); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// PeakDistance returns the minimum distance between peaks, defaulting to 0.
func PeakDistance(log *Document) float64 {
	if log == nil {
		return DefaultPeakDistance
	}
	value, ok := log.Lookup(peakDistance)
	if !ok {
		return DefaultPeakDistance
	}
	d, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return DefaultPeakDistance
	}
	return d
}

// Connectivity returns the voxel connectivity used to form clusters.
func Connectivity(log *Document) (int, bool) {
	if log == nil {
		return 0, false
	}
	value, ok := log.Lookup(connectivity)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
