package model

import "gonum.org/v1/gonum/mat"

// DesignType classifies the experimental design.
type DesignType string

// Design types.
const (
	EventRelatedDesign DesignType = "event_related"
	BlockBasedDesign   DesignType = "block_based"
	MixedDesign        DesignType = "mixed"
)

// HRFModel is the haemodynamic response model used for convolution.
type HRFModel string

// HRF models by FEAT convolution code.
const (
	GaussianHRF             HRFModel = "gaussian"
	GammaHRF                HRFModel = "gamma"
	DoubleGammaHRF          HRFModel = "fsl_double_gamma"
	GammaBasisSet           HRFModel = "gamma_basis_set"
	SineBasisSet            HRFModel = "sine_basis_set"
	FiniteImpulseResponseBS HRFModel = "finite_impulse_response_basis_set"
)

// GaussianRunningLineDrift is FSL's high-pass temporal filter.
const GaussianRunningLineDrift = "fsl_gaussian_running_line"

// DriftModel describes temporal filtering.
type DriftModel struct {
	Type         string  `json:"type"`
	CutOffPeriod float64 `json:"cutOffPeriod"`
}

// DesignMatrix is the fitted design with its configuration.
type DesignMatrix struct {
	File           string      `json:"file"`
	Image          string      `json:"image"`
	Matrix         *mat.Dense  `json:"-"`
	Shape          [2]int      `json:"shape"`
	RegressorNames []string    `json:"regressorNames"`
	DesignType     DesignType  `json:"designType,omitempty"`
	HRFModel       HRFModel    `json:"hrfModel,omitempty"`
	DriftModel     *DriftModel `json:"driftModel,omitempty"`
}

// Data describes the preprocessing applied to the input data.
type Data struct {
	GrandMeanScaling bool    `json:"grandMeanScaling"`
	TargetIntensity  float64 `json:"targetIntensity"`
}

// Error model vocabulary.
const (
	GaussianDistribution  = "gaussian"
	SpatiallyLocal        = "spatially_local"
	SpatiallyRegularized  = "spatially_regularized"
	SeriallyCorrelated    = "serially_correlated"
	IndependentParameters = "independent"
)

// ErrorModel describes the noise assumptions of the fit.
type ErrorModel struct {
	Distribution        string `json:"distribution"`
	VarianceHomogeneous bool   `json:"varianceHomogeneous"`
	VarianceSpatial     string `json:"varianceSpatial"`
	Dependence          string `json:"dependence"`
	// DependenceSpatial is empty when there is no spatial regularization term.
	DependenceSpatial string `json:"dependenceSpatial,omitempty"`
}

// ParameterEstimateMap is the fitted coefficient map of one regressor.
type ParameterEstimateMap struct {
	Map
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// MaskMap is the analysis mask.
type MaskMap struct {
	Map
	UserDefined bool `json:"userDefined"`
}

// GrandMeanMap is the mean functional image within the mask.
type GrandMeanMap struct {
	Map
	MaskFile string `json:"maskFile"`
}

// ModelFitting is the result of fitting the design in one analysis unit.
type ModelFitting struct {
	// ID identifies the model parameters estimation activity.
	ID                  string                 `json:"id"`
	Unit                AnalysisUnit           `json:"unit"`
	DesignMatrix        DesignMatrix           `json:"designMatrix"`
	Data                Data                   `json:"data"`
	ErrorModel          ErrorModel             `json:"errorModel"`
	ParameterEstimates  []ParameterEstimateMap `json:"parameterEstimates"`
	ResidualMeanSquares Map                    `json:"residualMeanSquares"`
	Mask                MaskMap                `json:"mask"`
	GrandMean           *GrandMeanMap          `json:"grandMean,omitempty"`
	CoordinateSpace     CoordinateSpace        `json:"coordinateSpace"`
}

// ParameterEstimateIDs maps parameter estimate numbers to their ids.
func (m *ModelFitting) ParameterEstimateIDs() map[int]string {
	ids := make(map[int]string, len(m.ParameterEstimates))
	for _, pe := range m.ParameterEstimates {
		ids[pe.Number] = pe.ID
	}
	return ids
}
