package feat

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/output"
	"github.com/nidmfsl/cli/internal/table"
)

// excursionSet is a thresh_z*.nii.gz file with its statistic reference.
type excursionSet struct {
	file  string
	ref   naming.StatRef
	label string
}

// excursionSets lists the thresholded statistic maps of a unit in file order.
// Files matching the glob but not named thresh_zstat<N> or thresh_zfstat<N>
// are skipped.
func excursionSets(unitDir string) ([]excursionSet, error) {
	files, err := filepath.Glob(filepath.Join(unitDir, naming.ThreshGlob))
	if err != nil {
		return nil, fmt.Errorf("listing excursion sets: %w", err)
	}
	sort.Strings(files)

	var refs []naming.StatRef
	var kept []string
	for _, f := range files {
		ref, err := naming.ParseStatFile(f)
		if err != nil {
			return nil, err
		}
		if f != naming.ThreshFile(unitDir, ref) {
			continue
		}
		refs = append(refs, ref)
		kept = append(kept, f)
	}

	sets := make([]excursionSet, 0, len(kept))
	for i, f := range kept {
		sets = append(sets, excursionSet{file: f, ref: refs[i], label: naming.StatLabel(refs[i], len(kept))})
	}
	return sets, nil
}

// contrasts assembles one contrast per excursion set of a unit and adds it to
// out under its model fitting and parameter estimate key.
func (p *parser) contrasts(unit model.AnalysisUnit, mf *model.ModelFitting, out map[model.ContrastKey][]*model.Contrast) error {
	log := output.UnitLogger(p.rel(unit.Dir))
	statsDir := naming.StatsDir(unit.Dir)

	dof, err := degreesOfFreedom(statsDir)
	if err != nil {
		return err
	}

	sets, err := excursionSets(unit.Dir)
	if err != nil {
		return err
	}
	peIDs := mf.ParameterEstimateIDs()
	spaceID := mf.CoordinateSpace.ID

	for _, es := range sets {
		n := es.ref.Number
		name, err := p.design.Search(fsf.ContrastName(n))
		if err != nil {
			return err
		}
		weights, err := p.contrastWeights(n)
		if err != nil {
			return err
		}

		mapOf := func(file string) model.Map {
			return model.Map{File: p.rel(file), Label: es.label, CoordinateSpaceID: spaceID}
		}

		c := &model.Contrast{
			Number:   n,
			Name:     name,
			StatType: es.ref.Type,
			Weights: model.ContrastWeights{
				Values:   weights,
				StatType: es.ref.Type,
				Name:     name,
				Label:    es.label,
			},
			Estimation: model.ContrastEstimation{
				ID:     identity.New(identity.KindContrastEstimation, p.rel(unit.Dir), es.ref.String()),
				Number: n,
				Name:   name,
			},
			ContrastMap: model.ContrastMap{Map: mapOf(naming.CopeFile(statsDir, n)), Name: name},
			VarianceMap: model.ContrastVarianceMap{Map: mapOf(naming.VarCopeFile(statsDir, n)), IsVariance: true},
			StatisticMap: model.StatisticMap{
				Map:              mapOf(naming.StatFile(statsDir, es.ref)),
				StatType:         es.ref.Type,
				Name:             name,
				DegreesOfFreedom: dof,
			},
			ZStatisticMap: model.StatisticMap{
				Map:              mapOf(naming.ZStatFile(statsDir, es.ref)),
				StatType:         naming.StatZ,
				Name:             name,
				DegreesOfFreedom: dof,
			},
		}

		key := model.NewContrastKey(mf.ID, naming.UsedParameterEstimates(weights, peIDs))
		out[key] = append(out[key], c)

		log.Debug("contrast assembled", "number", n, "name", name, "type", es.ref.Type, "key", key.String())
	}
	return nil
}

// contrastWeights returns the weights of a real contrast in regressor order.
func (p *parser) contrastWeights(con int) ([]float64, error) {
	matches := p.design.FindAllGroups(fsf.ContrastWeights(con))

	byIndex := make(map[int]float64, len(matches))
	for _, g := range matches {
		idx, err := strconv.Atoi(g["idx"])
		if err != nil {
			return nil, oerrors.NewParseError(fmt.Sprintf("bad regressor index %q", g["idx"]),
				p.design.Path(), fmt.Sprintf("con_real%d", con))
		}
		w, err := strconv.ParseFloat(g["info"], 64)
		if err != nil {
			return nil, oerrors.NewParseError(fmt.Sprintf("bad weight %q", g["info"]),
				p.design.Path(), fmt.Sprintf("con_real%d.%d", con, idx))
		}
		byIndex[idx] = w
	}

	weights := make([]float64, 0, len(byIndex))
	for _, idx := range naming.SortedNumbers(byIndex) {
		weights = append(weights, byIndex[idx])
	}
	return weights, nil
}

// degreesOfFreedom reads stats/dof. The value applies to every contrast of the unit.
func degreesOfFreedom(statsDir string) (float64, error) {
	path := filepath.Join(statsDir, naming.DOFFile)
	col, err := table.LoadColumn(path, 0, 0)
	if err != nil {
		return 0, err
	}
	if len(col) == 0 {
		return 0, oerrors.NewParseError("degrees of freedom file is empty", path, "")
	}
	return col[0], nil
}
