// Package model defines the object graph assembled from a FEAT directory.
//
// Records are built once by the feat package and never modified afterwards;
// consumers traverse them read-only.
package model

// AnalysisUnit is one model-fitting context: a first-level FEAT directory or one
// cope<N>.feat folder of a higher-level analysis.
type AnalysisUnit struct {
	Dir        string `json:"dir"`
	FirstLevel bool   `json:"firstLevel"`
}

// Software describes the package that produced the results.
type Software struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Coordinate systems.
const (
	SubjectCoordinateSystem      = "subject"
	MNI152NonLinear6thGeneration = "icbm_mni152_nonlinear_6th_generation"
	StandardizedCoordinateSystem = "standardized"
)

// CoordinateSpace is the voxel grid shared by every map of an analysis unit.
type CoordinateSpace struct {
	ID         string    `json:"id"`
	System     string    `json:"system"`
	Dimensions []int     `json:"dimensions"`
	VoxelSize  []float64 `json:"voxelSize"`
	Units      string    `json:"units"`
	Source     string    `json:"source"`
}

// Map is a reference to an image file in the FEAT directory.
type Map struct {
	File string `json:"file"`
	// Label distinguishes maps of different excursion sets, e.g. "_T001".
	Label             string `json:"label,omitempty"`
	CoordinateSpaceID string `json:"coordinateSpaceId,omitempty"`
}

// Coordinates is an x, y, z triple in voxels or millimetres.
type Coordinates [3]float64

// NewCoordinates returns a pointer to the triple.
func NewCoordinates(x, y, z float64) *Coordinates {
	return &Coordinates{x, y, z}
}
