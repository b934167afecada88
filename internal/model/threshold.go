package model

import "encoding/json"

// ThresholdMode names the height thresholding strategy.
type ThresholdMode string

// Threshold modes, by FEAT thresh code 1, 2 and 3.
const (
	VoxelUncorrectedMode ThresholdMode = "voxel_uncorrected"
	VoxelCorrectedMode   ThresholdMode = "voxel_corrected"
	ClusterExtentMode    ThresholdMode = "cluster_extent"
)

// ThresholdSpec is the height threshold of an inference. Exactly one of the
// three implementations below is used; each carries only its own fields.
type ThresholdSpec interface {
	Mode() ThresholdMode
	isThreshold()
}

// VoxelUncorrected thresholds voxels at an uncorrected p value.
type VoxelUncorrected struct {
	P float64
}

// VoxelCorrected thresholds voxels at a family-wise corrected p value.
type VoxelCorrected struct {
	P float64
}

// ClusterExtent forms clusters at a statistic threshold and keeps those whose
// extent is significant at the corrected p value.
type ClusterExtent struct {
	Statistic        float64
	ExtentPCorrected float64
}

func (VoxelUncorrected) Mode() ThresholdMode { return VoxelUncorrectedMode }
func (VoxelCorrected) Mode() ThresholdMode   { return VoxelCorrectedMode }
func (ClusterExtent) Mode() ThresholdMode    { return ClusterExtentMode }

func (VoxelUncorrected) isThreshold() {}
func (VoxelCorrected) isThreshold()   {}
func (ClusterExtent) isThreshold()    {}

// PUncorrected returns the uncorrected p threshold, if that is the mode.
func PUncorrected(t ThresholdSpec) (float64, bool) {
	v, ok := t.(VoxelUncorrected)
	return v.P, ok
}

// PCorrected returns the corrected voxelwise p threshold, if that is the mode.
func PCorrected(t ThresholdSpec) (float64, bool) {
	v, ok := t.(VoxelCorrected)
	return v.P, ok
}

// StatThreshold returns the cluster-forming statistic threshold, if that is the mode.
func StatThreshold(t ThresholdSpec) (float64, bool) {
	v, ok := t.(ClusterExtent)
	return v.Statistic, ok
}

// ExtentPCorrected returns the extent p threshold, if that is the mode.
func ExtentPCorrected(t ThresholdSpec) (float64, bool) {
	v, ok := t.(ClusterExtent)
	return v.ExtentPCorrected, ok
}

type thresholdJSON struct {
	Mode         ThresholdMode `json:"mode"`
	PUncorrected *float64      `json:"pUncorrected,omitempty"`
	PCorrected   *float64      `json:"pCorrected,omitempty"`
	Statistic    *float64      `json:"statistic,omitempty"`
}

// MarshalJSON renders the populated field only.
func (v VoxelUncorrected) MarshalJSON() ([]byte, error) {
	return json.Marshal(thresholdJSON{Mode: v.Mode(), PUncorrected: &v.P})
}

// MarshalJSON renders the populated field only.
func (v VoxelCorrected) MarshalJSON() ([]byte, error) {
	return json.Marshal(thresholdJSON{Mode: v.Mode(), PCorrected: &v.P})
}

// MarshalJSON renders the statistic threshold; the extent p value lives on
// the inference's extent threshold.
func (c ClusterExtent) MarshalJSON() ([]byte, error) {
	return json.Marshal(thresholdJSON{Mode: c.Mode(), Statistic: &c.Statistic})
}
