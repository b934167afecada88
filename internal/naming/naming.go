// Package naming implements the FSL FEAT file-naming conventions: it recovers
// statistic types and numbers from file names and builds the deterministic
// paths of result artifacts.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

// StatType is the kind of statistic a map holds.
type StatType string

const (
	// StatT is a t-statistic.
	StatT StatType = "T"
	// StatF is an F-statistic.
	StatF StatType = "F"
	// StatZ is a z-statistic.
	StatZ StatType = "Z"
)

// ImageExt is the extension FEAT uses for every image it writes.
const ImageExt = ".nii.gz"

var (
	statNameRe = regexp.MustCompile(`(zf?)stat(\d+)`)
	peNameRe   = regexp.MustCompile(`^pe(\d+)\.nii(?:\.gz)?$`)
	copeNameRe = regexp.MustCompile(`^cope(\d+)\.nii\.gz$`)
)

// StatRef identifies a contrast statistic by type and number.
type StatRef struct {
	Type   StatType
	Number int
}

// String returns the FSL stem of the z-statistic, e.g. "zstat1" or "zfstat2".
func (r StatRef) String() string {
	return r.zPrefix() + strconv.Itoa(r.Number)
}

func (r StatRef) zPrefix() string {
	if r.Type == StatF {
		return "zfstat"
	}
	return "zstat"
}

// ParseStatFile extracts the statistic reference embedded in a file name such as
// thresh_zstat3.nii.gz (T, 3) or thresh_zfstat1.nii.gz (F, 1).
func ParseStatFile(name string) (StatRef, error) {
	m := statNameRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return StatRef{}, oerrors.NewParseError("file name has no zstat or zfstat number", name, "")
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return StatRef{}, oerrors.NewParseError(fmt.Sprintf("bad statistic number %q", m[2]), name, "")
	}
	ref := StatRef{Type: StatT, Number: n}
	if m[1] == "zf" {
		ref.Type = StatF
	}
	return ref, nil
}

// ParsePENumber returns the number of a parameter estimate file (pe<N>.nii.gz).
func ParsePENumber(name string) (int, bool) {
	m := peNameRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCopeNumber returns the contrast number of a cope<N>.nii.gz file.
func ParseCopeNumber(name string) (int, error) {
	m := copeNameRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, oerrors.NewParseError("not a cope file", name, "")
	}
	return strconv.Atoi(m[1])
}

// StatLabel returns the suffix that distinguishes exported maps when a unit has
// several excursion sets, e.g. "_T001". A single excursion set yields "".
func StatLabel(ref StatRef, excursionSets int) string {
	if excursionSets <= 1 {
		return ""
	}
	return fmt.Sprintf("_%s%03d", ref.Type, ref.Number)
}

// UsedParameterEstimates returns the ids of the parameter estimates a contrast
// uses. Only positions whose weight is exactly 1 count as used; position i maps to
// parameter estimate number i+1. Positions without a matching estimate are skipped.
func UsedParameterEstimates(weights []float64, estimates map[int]string) []string {
	ids := []string{}
	for i, w := range weights {
		if w != 1 {
			continue
		}
		if id, ok := estimates[i+1]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// SortedNumbers returns the keys of a numbered map in ascending order.
func SortedNumbers[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
