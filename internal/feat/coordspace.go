package feat

import (
	"fmt"

	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/nifti"
)

// coordinateSpace describes the voxel grid of a unit. Every FEAT output of a unit
// shares the grid of its residual variance map.
func (p *parser) coordinateSpace(reference string) (model.CoordinateSpace, error) {
	h, err := nifti.ReadHeader(reference)
	if err != nil {
		return model.CoordinateSpace{}, err
	}
	system, err := p.coordinateSystem()
	if err != nil {
		return model.CoordinateSpace{}, err
	}

	dims := h.Dims()
	if len(dims) > 3 {
		dims = dims[:3]
	}
	voxel := h.VoxelSize()

	return model.CoordinateSpace{
		ID:         identity.New(identity.KindCoordinateSpace, system, fmt.Sprint(dims), fmt.Sprint(voxel)),
		System:     system,
		Dimensions: dims,
		VoxelSize:  voxel,
		Units:      h.SpatialUnits(),
		Source:     p.rel(reference),
	}, nil
}

// coordinateSystem resolves the template of the analysis. First-level analyses
// and analyses without standard registration stay in subject space.
func (p *parser) coordinateSystem() (string, error) {
	standard, err := p.design.Bool(fsf.RegStandardYN)
	if err != nil {
		return "", err
	}
	if p.firstLevel || !standard {
		return model.SubjectCoordinateSystem, nil
	}

	if alt, ok := p.design.Lookup(fsf.AlternateReferenceYN); ok && alt == "1" {
		return model.StandardizedCoordinateSystem, nil
	}
	return model.MNI152NonLinear6thGeneration, nil
}
