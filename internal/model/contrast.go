package model

import (
	"strings"

	"github.com/nidmfsl/cli/internal/naming"
)

// ContrastWeights is the weight vector of a contrast.
type ContrastWeights struct {
	Values   []float64       `json:"values"`
	StatType naming.StatType `json:"statType"`
	Name     string          `json:"name"`
	Label    string          `json:"label,omitempty"`
}

// ContrastEstimation identifies the activity that computed a contrast.
type ContrastEstimation struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// ContrastMap is the contrast of parameter estimates (cope).
type ContrastMap struct {
	Map
	Name string `json:"name"`
}

// ContrastVarianceMap is the variance of the contrast (varcope).
type ContrastVarianceMap struct {
	Map
	IsVariance bool `json:"isVariance"`
}

// StatisticMap is a t, F or z statistic map.
type StatisticMap struct {
	Map
	StatType         naming.StatType `json:"statType"`
	Name             string          `json:"name"`
	DegreesOfFreedom float64         `json:"degreesOfFreedom"`
}

// Contrast is one contrast of one analysis unit.
type Contrast struct {
	Number        int                 `json:"number"`
	Name          string              `json:"name"`
	StatType      naming.StatType     `json:"statType"`
	Weights       ContrastWeights     `json:"weights"`
	Estimation    ContrastEstimation  `json:"estimation"`
	ContrastMap   ContrastMap         `json:"contrastMap"`
	VarianceMap   ContrastVarianceMap `json:"varianceMap"`
	StatisticMap  StatisticMap        `json:"statisticMap"`
	ZStatisticMap StatisticMap        `json:"zStatisticMap"`
}

// ContrastKey groups contrasts by model fitting and the parameter estimates they use.
type ContrastKey struct {
	ModelFittingID string
	peIDs          string
}

const keySeparator = ","

// NewContrastKey builds a comparable key from a model fitting id and an ordered
// list of parameter estimate ids.
func NewContrastKey(modelFittingID string, peIDs []string) ContrastKey {
	return ContrastKey{ModelFittingID: modelFittingID, peIDs: strings.Join(peIDs, keySeparator)}
}

// ParameterEstimateIDs returns the parameter estimate ids of the key, in order.
func (k ContrastKey) ParameterEstimateIDs() []string {
	if k.peIDs == "" {
		return []string{}
	}
	return strings.Split(k.peIDs, keySeparator)
}

// String renders the key for logs and serialized output.
func (k ContrastKey) String() string {
	return k.ModelFittingID + "[" + k.peIDs + "]"
}
