package feat

import (
	"context"
	"fmt"
	"path/filepath"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/output"
)

// FEAT thresh codes.
const (
	threshNone        = 0
	threshUncorrected = 1
	threshVoxel       = 2
	threshCluster     = 3
)

// thresholding is the post-stats configuration shared by every excursion set.
type thresholding struct {
	spec       model.ThresholdSpec
	masked     bool
	probThresh float64
}

// thresholding reads the height threshold and contrast masking settings.
func (p *parser) thresholding() (thresholding, error) {
	code, err := p.design.Int(fsf.ThreshType)
	if err != nil {
		return thresholding{}, err
	}
	prob, err := p.design.Float(fsf.ProbThresh)
	if err != nil {
		return thresholding{}, err
	}
	z, err := p.design.Float(fsf.ZThresh)
	if err != nil {
		return thresholding{}, err
	}

	var spec model.ThresholdSpec
	switch code {
	case threshUncorrected:
		spec = model.VoxelUncorrected{P: prob}
	case threshVoxel:
		spec = model.VoxelCorrected{P: prob}
	case threshCluster:
		spec = model.ClusterExtent{Statistic: z, ExtentPCorrected: prob}
	case threshNone:
		return thresholding{}, oerrors.NewUnsupportedError("analysis was run without thresholding",
			"thresh", "rerun post-stats with uncorrected, voxel or cluster thresholding")
	default:
		return thresholding{}, oerrors.NewUnsupportedError(fmt.Sprintf("unknown thresholding code %d", code),
			"thresh", "")
	}

	masked, err := p.contrastMasking()
	if err != nil {
		return thresholding{}, err
	}
	return thresholding{spec: spec, masked: masked, probThresh: prob}, nil
}

// contrastMasking reports whether contrast 1 masks itself. Masking by any other
// contrast pair cannot be represented.
func (p *parser) contrastMasking() (bool, error) {
	masked, err := p.design.Bool(fsf.ContrastMask11)
	if err != nil {
		return false, err
	}
	for _, g := range p.design.FindAllGroups(fsf.ContrastMasks) {
		if g["i"] == "1" && g["j"] == "1" {
			continue
		}
		if g["info"] != "0" {
			return false, oerrors.NewUnsupportedError(
				fmt.Sprintf("contrast %s is masked by contrast %s", g["i"], g["j"]),
				fmt.Sprintf("conmask%s_%s", g["i"], g["j"]),
				"only masking by the first contrast is supported")
		}
	}
	return masked, nil
}

// inferences assembles one inference per excursion set of a unit and adds it to
// out under the id of the contrast estimation it thresholds.
func (p *parser) inferences(
	ctx context.Context,
	unit model.AnalysisUnit,
	mf *model.ModelFitting,
	contrasts map[model.ContrastKey][]*model.Contrast,
	out map[string][]*model.Inference,
) error {
	log := output.UnitLogger(p.rel(unit.Dir))

	sets, err := excursionSets(unit.Dir)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		log.Debug("no excursion sets")
		return nil
	}

	th, err := p.thresholding()
	if err != nil {
		return err
	}
	space := mf.CoordinateSpace
	search, err := p.searchSpace(ctx, unit, space)
	if err != nil {
		return err
	}

	for _, es := range sets {
		con, err := findContrast(contrasts, mf.ID, es.ref)
		if err != nil {
			return err
		}

		n := es.ref.Number
		inf := &model.Inference{
			ID:           identity.New(identity.KindInference, p.rel(unit.Dir), es.ref.String()),
			ContrastID:   con.Estimation.ID,
			ContrastName: con.Name,
			StatNum:      n,
			Threshold:    th.spec,
			ExcursionSet: model.ExcursionSet{
				Map: model.Map{
					File:              p.rel(es.file),
					Label:             es.label,
					CoordinateSpaceID: space.ID,
				},
				Visualisation: p.rel(naming.RenderedThreshFile(unit.Dir, es.ref)),
			},
			SearchSpace: search,
			SoftwareID:  p.software.ID,
		}

		if th.masked {
			inf.DisplayMask = &model.DisplayMask{
				Map: model.Map{
					File:              p.rel(filepath.Join(p.featDir, naming.MaskImage)),
					Label:             es.label,
					CoordinateSpaceID: space.ID,
				},
				StatNum: n,
			}
		}

		if th.spec.Mode() == model.ClusterExtentMode {
			if inf.Clusters, err = mergeClusters(unit.Dir, es.ref); err != nil {
				return err
			}
			inf.Extent = &model.ExtentThreshold{PCorrected: th.probThresh}
			inf.PeakCriteria = &model.PeakCriteria{StatNum: n, MinDistance: fsf.PeakDistance(p.postStats)}
			if maxPeaks, ok := fsf.NumPeaks(p.postStats); ok {
				inf.PeakCriteria.MaxPeaks = &maxPeaks
			}
			inf.ClusterCriteria = &model.ClusterCriteria{StatNum: n}
			if conn, ok := fsf.Connectivity(p.postStats); ok {
				inf.ClusterCriteria.Connectivity = &conn
			}
		}

		out[con.Estimation.ID] = append(out[con.Estimation.ID], inf)
		log.Debug("inference assembled", "stat", es.ref.String(), "mode", th.spec.Mode(), "clusters", len(inf.Clusters))
	}
	return nil
}

// findContrast returns the contrast of a model fitting whose contrast map
// number and statistic type match the excursion set.
func findContrast(contrasts map[model.ContrastKey][]*model.Contrast, mfID string, ref naming.StatRef) (*model.Contrast, error) {
	for key, group := range contrasts {
		if key.ModelFittingID != mfID {
			continue
		}
		for _, c := range group {
			n, err := naming.ParseCopeNumber(filepath.Base(c.ContrastMap.File))
			if err != nil {
				return nil, err
			}
			if n == ref.Number && c.StatType == ref.Type {
				return c, nil
			}
		}
	}
	return nil, oerrors.NewIntegrityError("excursion set has no matching contrast", map[string]string{
		"Statistic":    ref.String(),
		"ModelFitting": mfID,
	})
}
