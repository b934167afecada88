package feat

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/montanaflynn/stats"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/table"
)

// designMatHeaderRows is the number of /NumWaves, /NumPoints, /PPheights,
// blank and /Matrix lines at the top of design.mat.
const designMatHeaderRows = 5

// onsetDurationColumn is the duration column of an FSL 3-column onset file.
const onsetDurationColumn = 2

// eventMaxDuration is the longest duration, in seconds, of an event-related stimulus.
const eventMaxDuration = 1.0

var hrfModels = map[int]model.HRFModel{
	1: model.GaussianHRF,
	2: model.GammaHRF,
	3: model.DoubleGammaHRF,
	4: model.GammaBasisSet,
	5: model.SineBasisSet,
	6: model.FiniteImpulseResponseBS,
}

// designMatrix reads design.mat and the design configuration of a unit.
func (p *parser) designMatrix(unit model.AnalysisUnit) (model.DesignMatrix, error) {
	values, err := table.Load(filepath.Join(unit.Dir, naming.DesignMat), designMatHeaderRows)
	if err != nil {
		return model.DesignMatrix{}, err
	}

	names, err := p.regressorNames()
	if err != nil {
		return model.DesignMatrix{}, err
	}

	dm := model.DesignMatrix{
		File:           p.rel(values.Path()),
		Image:          p.rel(filepath.Join(unit.Dir, naming.DesignImage)),
		Matrix:         values.Dense(),
		Shape:          [2]int{values.Rows(), values.Cols()},
		RegressorNames: names,
	}

	if !p.firstLevel {
		return dm, nil
	}

	if dm.DesignType, err = p.designType(); err != nil {
		return model.DesignMatrix{}, err
	}
	if dm.HRFModel, err = p.hrfModel(); err != nil {
		return model.DesignMatrix{}, err
	}
	cutOff, err := p.design.Float(fsf.HighPassCutoff)
	if err != nil {
		return model.DesignMatrix{}, err
	}
	dm.DriftModel = &model.DriftModel{Type: model.GaussianRunningLineDrift, CutOffPeriod: cutOff}

	return dm, nil
}

// regressorNames lists EV titles in EV order, each followed by a
// "<name>*temporal_derivative" entry when its temporal derivative is modelled.
func (p *parser) regressorNames() ([]string, error) {
	titles := make(map[int]string)
	for _, g := range p.design.FindAllGroups(fsf.EVTitles) {
		n, err := strconv.Atoi(g["num"])
		if err != nil {
			return nil, oerrors.NewParseError("bad EV number", p.design.Path(), "evtitle"+g["num"])
		}
		titles[n] = g["name"]
	}

	names := []string{}
	for _, ev := range naming.SortedNumbers(titles) {
		names = append(names, titles[ev])
		deriv, err := p.design.Bool(fsf.TemporalDerivative(ev))
		if err != nil {
			return nil, err
		}
		if deriv {
			names = append(names, titles[ev]+"*temporal_derivative")
		}
	}
	return names, nil
}

// designType classifies the design from the durations of every custom onset file:
// all durations up to one second is event related, all above is block based.
func (p *parser) designType() (model.DesignType, error) {
	var durations []float64
	for _, g := range p.design.FindAllGroups(fsf.CustomOnsets) {
		file := g["file"]
		if !filepath.IsAbs(file) {
			file = filepath.Join(p.featDir, file)
		}
		col, err := table.LoadColumn(file, 0, onsetDurationColumn)
		if err != nil {
			return "", err
		}
		durations = append(durations, col...)
	}
	if len(durations) == 0 {
		// No custom onsets (e.g. resting state or square waveforms): leave unset.
		return "", nil
	}

	maxDuration, err := stats.Max(durations)
	if err != nil {
		return "", fmt.Errorf("onset durations: %w", err)
	}
	minDuration, err := stats.Min(durations)
	if err != nil {
		return "", fmt.Errorf("onset durations: %w", err)
	}

	switch {
	case maxDuration <= eventMaxDuration:
		return model.EventRelatedDesign, nil
	case minDuration > eventMaxDuration:
		return model.BlockBasedDesign, nil
	default:
		return model.MixedDesign, nil
	}
}

// hrfModel maps the convolution of the first EV to an HRF model.
func (p *parser) hrfModel() (model.HRFModel, error) {
	code, err := p.design.Int(fsf.Convolve1)
	if err != nil {
		return "", err
	}
	hrf, ok := hrfModels[code]
	if !ok {
		return "", oerrors.NewUnsupportedError(fmt.Sprintf("unsupported HRF convolution %d", code),
			"convolve1", "FEAT convolutions 1 to 6 are supported")
	}
	return hrf, nil
}
