package feat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/output"
	"github.com/nidmfsl/cli/internal/table"
)

// DefaultSmoothestBinary is the FSL smoothness estimation tool.
const DefaultSmoothestBinary = "smoothest"

// verboseSuffix is appended to stats/smoothness for recomputed estimates.
const verboseSuffix = "_v"

// SmoothCommand is one smoothest invocation.
type SmoothCommand struct {
	// Dir is the working directory, the analysis unit.
	Dir string
	// Args are the smoothest arguments, without the binary.
	Args []string
	// Stdout is the file standard output is redirected to, relative to Dir.
	Stdout string
}

// Smoother runs smoothness estimation.
type Smoother interface {
	Smooth(ctx context.Context, cmd SmoothCommand) error
}

// ExecSmoother runs smoothest as a subprocess.
type ExecSmoother struct {
	// Binary defaults to DefaultSmoothestBinary.
	Binary string
}

// Smooth implements Smoother.
func (s ExecSmoother) Smooth(ctx context.Context, sc SmoothCommand) error {
	binary := s.Binary
	if binary == "" {
		binary = DefaultSmoothestBinary
	}

	cmd := exec.CommandContext(ctx, binary, sc.Args...)
	cmd.Dir = sc.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if sc.Stdout != "" {
		out, err := os.Create(filepath.Join(sc.Dir, sc.Stdout))
		if err != nil {
			return fmt.Errorf("creating %s: %w", sc.Stdout, err)
		}
		defer out.Close()
		cmd.Stdout = out
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s %s: %w: %s", binary, strings.Join(sc.Args, " "), err,
			strings.TrimSpace(stderr.String()))
	}
	return nil
}

// smoothness holds the values of a smoothest estimate.
type smoothness struct {
	dlh       float64
	volume    int
	resels    float64
	fwhmVoxel *model.Coordinates
	fwhmUnits *model.Coordinates
}

// searchSpace describes the in-mask search volume of a unit.
func (p *parser) searchSpace(ctx context.Context, unit model.AnalysisUnit, space model.CoordinateSpace) (model.SearchSpace, error) {
	sm, err := p.smoothness(ctx, unit)
	if err != nil {
		return model.SearchSpace{}, err
	}
	if sm.resels == 0 {
		return model.SearchSpace{}, oerrors.NewParseError("resel size is zero",
			filepath.Join(naming.StatsDir(unit.Dir), naming.SmoothnessFile), "RESELS")
	}

	volume := float64(sm.volume)
	return model.SearchSpace{
		Map: model.Map{
			File:              p.rel(filepath.Join(unit.Dir, naming.MaskImage)),
			CoordinateSpaceID: space.ID,
		},
		ID:                      identity.New(identity.KindSearchSpace, p.rel(unit.Dir)),
		VolumeInVoxels:          sm.volume,
		VolumeInUnits:           volume * floats.Prod(space.VoxelSize),
		VolumeInResels:          volume / sm.resels,
		ReselSizeInVoxels:       sm.resels,
		DLH:                     sm.dlh,
		RandomFieldStationarity: true,
		NoiseFWHMVoxels:         sm.fwhmVoxel,
		NoiseFWHMUnits:          sm.fwhmUnits,
	}, nil
}

// smoothness reads stats/smoothness. Estimates written without -V lack the noise
// FWHM; they are recomputed with -V from the command in logs/feat3_stats, or,
// without that log, read as DLH, VOLUME and RESELS with the FWHM left absent.
func (p *parser) smoothness(ctx context.Context, unit model.AnalysisUnit) (smoothness, error) {
	log := output.UnitLogger(p.rel(unit.Dir))
	path := filepath.Join(naming.StatsDir(unit.Dir), naming.SmoothnessFile)

	doc, err := fsf.Load(path)
	if err != nil {
		return smoothness{}, err
	}
	if sm, ok, err := parseVerboseSmoothness(doc); ok || err != nil {
		return sm, err
	}

	statsLog, err := fsf.LoadOptional(filepath.Join(p.featDir, naming.LogsDirName, naming.StatsLog))
	if err != nil {
		return smoothness{}, err
	}
	if statsLog == nil {
		log.Warn("stats log not found, noise FWHM will not be reported", "log", naming.StatsLog)
		return plainSmoothness(path)
	}

	cmd, err := smoothestCommand(statsLog, unit.Dir)
	if err != nil {
		return smoothness{}, err
	}
	log.Debug("recomputing smoothness", "args", strings.Join(cmd.Args, " "))
	if err := p.smoother.Smooth(ctx, cmd); err != nil {
		return smoothness{}, err
	}

	verbose, err := fsf.Load(path + verboseSuffix)
	if err != nil {
		return smoothness{}, err
	}
	sm, ok, err := parseVerboseSmoothness(verbose)
	if err != nil {
		return smoothness{}, err
	}
	if !ok {
		return smoothness{}, oerrors.NewParseError("recomputed smoothness has no verbose estimates",
			verbose.Path(), "")
	}
	return sm, nil
}

// smoothestCommand rewrites the logged smoothest call to write verbose
// estimates to stats/smoothness_v.
func smoothestCommand(statsLog *fsf.Document, dir string) (SmoothCommand, error) {
	line, err := statsLog.Search(fsf.SmoothestCommand)
	if err != nil {
		return SmoothCommand{}, err
	}

	sc := SmoothCommand{Dir: dir, Args: []string{"-V"}}
	fields := strings.Fields(line)[1:]
	for i := 0; i < len(fields); i++ {
		f := strings.ReplaceAll(fields[i], "stats/"+naming.SmoothnessFile, "stats/"+naming.SmoothnessFile+verboseSuffix)
		if f == ">" && i+1 < len(fields) {
			sc.Stdout = strings.ReplaceAll(fields[i+1], "stats/"+naming.SmoothnessFile, "stats/"+naming.SmoothnessFile+verboseSuffix)
			i++
			continue
		}
		if f == "-V" {
			continue
		}
		sc.Args = append(sc.Args, f)
	}
	return sc, nil
}

func parseVerboseSmoothness(doc *fsf.Document) (smoothness, bool, error) {
	matches := doc.FindAllGroups(fsf.SmoothnessVerbose)
	if len(matches) == 0 {
		return smoothness{}, false, nil
	}
	g := matches[0]

	var values [9]float64
	names := []string{"fwhmx_vx", "fwhmy_vx", "fwhmz_vx", "fwhmx_mm", "fwhmy_mm", "fwhmz_mm", "dlh", "volume", "resels"}
	for i, name := range names {
		v, err := strconv.ParseFloat(g[name], 64)
		if err != nil {
			return smoothness{}, false, oerrors.NewParseError(fmt.Sprintf("bad %s value %q", name, g[name]), doc.Path(), name)
		}
		values[i] = v
	}

	return smoothness{
		fwhmVoxel: model.NewCoordinates(values[0], values[1], values[2]),
		fwhmUnits: model.NewCoordinates(values[3], values[4], values[5]),
		dlh:       values[6],
		volume:    int(values[7]),
		resels:    values[8],
	}, true, nil
}

// plainSmoothness reads the DLH, VOLUME and RESELS lines of a non-verbose estimate.
func plainSmoothness(path string) (smoothness, error) {
	col, err := table.LoadColumn(path, 0, 1)
	if err != nil {
		return smoothness{}, err
	}
	if len(col) < 3 {
		return smoothness{}, oerrors.NewParseError(
			fmt.Sprintf("expected DLH, VOLUME and RESELS, found %d values", len(col)), path, "")
	}
	return smoothness{dlh: col[0], volume: int(col[1]), resels: col[2]}, nil
}
