package feat

import (
	"fmt"
	"os"
	"path/filepath"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/nifti"
	"github.com/nidmfsl/cli/internal/output"
)

// FEAT scales every run to a grand mean of 10000.
const targetIntensity = 10000.0

// modelFitting assembles the model fitting record of one analysis unit.
func (p *parser) modelFitting(unit model.AnalysisUnit) (*model.ModelFitting, error) {
	log := output.UnitLogger(p.rel(unit.Dir))
	statsDir := naming.StatsDir(unit.Dir)

	dm, err := p.designMatrix(unit)
	if err != nil {
		return nil, err
	}

	residuals, err := p.residualsFile(statsDir)
	if err != nil {
		return nil, err
	}

	space, err := p.coordinateSpace(residuals)
	if err != nil {
		return nil, err
	}

	mfID := identity.New(identity.KindModelFitting, p.rel(unit.Dir))

	pes, err := p.parameterEstimates(statsDir, space.ID)
	if err != nil {
		return nil, err
	}

	maskFile := filepath.Join(unit.Dir, naming.MaskImage)
	if _, ok := optionalFile(maskFile); !ok {
		return nil, oerrors.NewNotFoundError("analysis mask does not exist", maskFile, "")
	}

	mf := &model.ModelFitting{
		ID:                 mfID,
		Unit:               model.AnalysisUnit{Dir: p.rel(unit.Dir), FirstLevel: unit.FirstLevel},
		DesignMatrix:       dm,
		Data:               model.Data{GrandMeanScaling: true, TargetIntensity: targetIntensity},
		ErrorModel:         errorModel(p.firstLevel),
		ParameterEstimates: pes,
		ResidualMeanSquares: model.Map{
			File:              p.rel(residuals),
			CoordinateSpaceID: space.ID,
		},
		Mask: model.MaskMap{
			Map: model.Map{File: p.rel(maskFile), CoordinateSpaceID: space.ID},
		},
		CoordinateSpace: space,
	}

	if meanFunc, ok := optionalFile(filepath.Join(unit.Dir, naming.MeanFuncImage)); ok {
		mf.GrandMean = &model.GrandMeanMap{
			Map:      model.Map{File: p.rel(meanFunc), CoordinateSpaceID: space.ID},
			MaskFile: p.rel(maskFile),
		}
	} else {
		log.Debug("no grand mean map", "file", naming.MeanFuncImage)
	}

	log.Debug("model fitting assembled",
		"regressors", len(dm.RegressorNames),
		"parameterEstimates", len(pes),
		"designType", dm.DesignType,
	)
	return mf, nil
}

// errorModel returns FEAT's fixed noise model for each level: FILM at first
// level, FLAME at higher levels.
func errorModel(firstLevel bool) model.ErrorModel {
	if firstLevel {
		return model.ErrorModel{
			Distribution:        model.GaussianDistribution,
			VarianceHomogeneous: true,
			VarianceSpatial:     model.SpatiallyLocal,
			Dependence:          model.SeriallyCorrelated,
			DependenceSpatial:   model.SpatiallyRegularized,
		}
	}
	return model.ErrorModel{
		Distribution:        model.GaussianDistribution,
		VarianceHomogeneous: false,
		VarianceSpatial:     model.SpatiallyLocal,
		Dependence:          model.IndependentParameters,
	}
}

// residualsFile returns the residual variance map of a unit. Higher-level units
// have none on disk, so it is computed as the between-subject variance plus the
// within-subject variance and written to stats/calculated_sigmasquareds.nii.gz.
// The file is rewritten on every parse.
func (p *parser) residualsFile(statsDir string) (string, error) {
	if p.firstLevel {
		path := filepath.Join(statsDir, naming.SigmaSquareds)
		if _, ok := optionalFile(path); !ok {
			return "", oerrors.NewNotFoundError("residual variance map does not exist", path, "")
		}
		return path, nil
	}

	group, err := nifti.Read(filepath.Join(statsDir, naming.GroupVariance))
	if err != nil {
		return "", err
	}
	subject, err := nifti.Read(filepath.Join(statsDir, naming.SubjectVariance))
	if err != nil {
		return "", err
	}
	sum, err := nifti.Sum(group, subject)
	if err != nil {
		return "", err
	}

	path := filepath.Join(statsDir, naming.CalculatedSigma2)
	if err := sum.Write(path); err != nil {
		return "", err
	}
	output.Debug("wrote residual variance map", "file", p.rel(path))
	return path, nil
}

// parameterEstimates lists stats/pe<N>.nii.gz in ascending number order.
func (p *parser) parameterEstimates(statsDir, spaceID string) ([]model.ParameterEstimateMap, error) {
	entries, err := os.ReadDir(statsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("stats directory does not exist", statsDir, "")
		}
		return nil, fmt.Errorf("listing %s: %w", statsDir, err)
	}

	byNumber := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := naming.ParsePENumber(e.Name()); ok {
			byNumber[n] = filepath.Join(statsDir, e.Name())
		}
	}

	pes := make([]model.ParameterEstimateMap, 0, len(byNumber))
	for _, n := range naming.SortedNumbers(byNumber) {
		file := p.rel(byNumber[n])
		pes = append(pes, model.ParameterEstimateMap{
			Map:    model.Map{File: file, CoordinateSpaceID: spaceID},
			ID:     identity.New(identity.KindParameterEstimate, file),
			Number: n,
		})
	}
	return pes, nil
}
