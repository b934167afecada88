package testutil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EV is one explanatory variable of a design.
type EV struct {
	Title      string
	Derivative bool
	// OnsetFile is written as custom<N> when set.
	OnsetFile string
}

// Contrast is one real contrast of a design.
type Contrast struct {
	Name    string
	Weights []float64
}

// FSF renders a design.fsf in the FEAT dialect.
type FSF struct {
	Level      int
	Version    string
	Thresh     int
	ProbThresh float64
	ZThresh    float64
	Convolve   int
	HighPass   float64
	// ConMasks maps "i_j" to a conmask flag; conmask1_1 defaults to 0.
	ConMasks           map[string]int
	RegStandard        bool
	AlternateReference bool
	EVs                []EV
	Contrasts          []Contrast
}

// DefaultFSF returns a first-level, cluster thresholded design with two EVs
// and two contrasts.
func DefaultFSF() FSF {
	return FSF{
		Level:      1,
		Version:    "6.00",
		Thresh:     3,
		ProbThresh: 0.05,
		ZThresh:    2.3,
		Convolve:   3,
		HighPass:   100,
		EVs: []EV{
			{Title: "faces"},
			{Title: "houses"},
		},
		Contrasts: []Contrast{
			{Name: "faces", Weights: []float64{1, 0}},
			{Name: "faces > houses", Weights: []float64{1, -1}},
		},
	}
}

// String renders the design file.
func (f FSF) String() string {
	var b strings.Builder
	line := func(key, value string) {
		fmt.Fprintf(&b, "# %s\nset fmri(%s) %s\n\n", key, key, value)
	}
	quote := func(s string) string { return `"` + s + `"` }
	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	flag := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}

	line("version", f.Version)
	line("level", strconv.Itoa(f.Level))
	line("thresh", strconv.Itoa(f.Thresh))
	line("prob_thresh", num(f.ProbThresh))
	line("z_thresh", num(f.ZThresh))
	line("paradigm_hp", num(f.HighPass))
	line("regstandard_yn", flag(f.RegStandard))
	line("alternateReference_yn", flag(f.AlternateReference))
	line("regstandard", quote("/usr/share/fsl/data/standard/MNI152_T1_2mm_brain"))

	for i, ev := range f.EVs {
		n := i + 1
		line(fmt.Sprintf("evtitle%d", n), quote(ev.Title))
		line(fmt.Sprintf("convolve%d", n), strconv.Itoa(f.Convolve))
		line(fmt.Sprintf("deriv_yn%d", n), flag(ev.Derivative))
		if ev.OnsetFile != "" {
			line(fmt.Sprintf("custom%d", n), quote(ev.OnsetFile))
		}
	}

	for i, c := range f.Contrasts {
		n := i + 1
		line(fmt.Sprintf("conname_real.%d", n), quote(c.Name))
		for j, w := range c.Weights {
			line(fmt.Sprintf("con_real%d.%d", n, j+1), num(w))
		}
	}

	masks := map[string]int{"1_1": 0}
	for k, v := range f.ConMasks {
		masks[k] = v
	}
	keys := make([]string, 0, len(masks))
	for k := range masks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line("conmask"+k, strconv.Itoa(masks[k]))
	}

	return b.String()
}
