package feat

import (
	"sort"

	"github.com/nidmfsl/cli/internal/model"
)

// ModelFittingList returns the model fittings in unit order.
func (r *Result) ModelFittingList() []*model.ModelFitting {
	out := make([]*model.ModelFitting, 0, len(r.Units))
	for _, u := range r.Units {
		if mf, ok := r.ModelFittings[u.Dir]; ok {
			out = append(out, mf)
		}
	}
	return out
}

// ContrastKeys returns the contrast keys in a stable order: by model fitting
// unit order, then by the lowest contrast number in the group.
func (r *Result) ContrastKeys() []model.ContrastKey {
	unitOrder := make(map[string]int, len(r.Units))
	for i, mf := range r.ModelFittingList() {
		unitOrder[mf.ID] = i
	}

	keys := make([]model.ContrastKey, 0, len(r.Contrasts))
	for k := range r.Contrasts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if unitOrder[a.ModelFittingID] != unitOrder[b.ModelFittingID] {
			return unitOrder[a.ModelFittingID] < unitOrder[b.ModelFittingID]
		}
		na, nb := r.Contrasts[a][0].Number, r.Contrasts[b][0].Number
		if na != nb {
			return na < nb
		}
		return a.String() < b.String()
	})
	return keys
}

// ContrastList returns every contrast, grouped in ContrastKeys order.
func (r *Result) ContrastList() []*model.Contrast {
	var out []*model.Contrast
	for _, k := range r.ContrastKeys() {
		out = append(out, r.Contrasts[k]...)
	}
	return out
}

// InferenceList returns every inference in contrast order.
func (r *Result) InferenceList() []*model.Inference {
	var out []*model.Inference
	seen := make(map[string]bool)
	for _, c := range r.ContrastList() {
		if seen[c.Estimation.ID] {
			continue
		}
		seen[c.Estimation.ID] = true
		out = append(out, r.Inferences[c.Estimation.ID]...)
	}
	return out
}

// ContrastGroup is one serialized entry of the contrast mapping.
type ContrastGroup struct {
	ModelFittingID       string            `json:"modelFittingId"`
	ParameterEstimateIDs []string          `json:"parameterEstimateIds"`
	Contrasts            []*model.Contrast `json:"contrasts"`
}

// InferenceGroup is one serialized entry of the inference mapping.
type InferenceGroup struct {
	ContrastEstimationID string             `json:"contrastEstimationId"`
	Inferences           []*model.Inference `json:"inferences"`
}

// Graph is the serializable, deterministically ordered form of a Result.
type Graph struct {
	Software      model.Software        `json:"software"`
	FirstLevel    bool                  `json:"firstLevel"`
	ModelFittings []*model.ModelFitting `json:"modelFittings"`
	Contrasts     []ContrastGroup       `json:"contrasts"`
	Inferences    []InferenceGroup      `json:"inferences"`
}

// Graph flattens the result mappings into ordered lists.
func (r *Result) Graph() *Graph {
	g := &Graph{
		Software:      r.Software,
		FirstLevel:    r.FirstLevel,
		ModelFittings: r.ModelFittingList(),
		Contrasts:     []ContrastGroup{},
		Inferences:    []InferenceGroup{},
	}
	for _, k := range r.ContrastKeys() {
		g.Contrasts = append(g.Contrasts, ContrastGroup{
			ModelFittingID:       k.ModelFittingID,
			ParameterEstimateIDs: k.ParameterEstimateIDs(),
			Contrasts:            r.Contrasts[k],
		})
	}
	seen := make(map[string]bool)
	for _, c := range r.ContrastList() {
		id := c.Estimation.ID
		if seen[id] || len(r.Inferences[id]) == 0 {
			continue
		}
		seen[id] = true
		g.Inferences = append(g.Inferences, InferenceGroup{
			ContrastEstimationID: id,
			Inferences:           r.Inferences[id],
		})
	}
	return g
}
