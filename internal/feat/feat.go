// Package feat assembles the model, contrast and inference records of an FSL
// FEAT output directory.
//
// Parsing runs in three ordered stages. Each stage returns its records and the
// next stage receives them as arguments:
//
//  1. MODEL FITTING: one record per analysis unit (design, error model, maps).
//  2. CONTRASTS:     one record per excursion set, keyed by model fitting and
//     the parameter estimates the contrast uses.
//  3. INFERENCES:    one record per excursion set, keyed by the contrast
//     estimation it thresholds.
package feat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/fsf"
	"github.com/nidmfsl/cli/internal/identity"
	"github.com/nidmfsl/cli/internal/model"
	"github.com/nidmfsl/cli/internal/naming"
	"github.com/nidmfsl/cli/internal/output"
)

// SoftwareName is the package that writes FEAT directories.
const SoftwareName = "FSL"

// Options configures a parse.
type Options struct {
	// FeatDir is the FEAT output directory.
	FeatDir string

	// PostStatsLog is the post-stats log name inside <FeatDir>/logs.
	// Defaults to feat4_post.
	PostStatsLog string

	// Smoother recomputes verbose smoothness estimates when stats/smoothness
	// lacks them. Defaults to running smoothest from PATH.
	Smoother Smoother
}

// Result is the assembled object graph. It is read-only once Parse returns.
type Result struct {
	FeatDir    string               `json:"featDir"`
	FirstLevel bool                 `json:"firstLevel"`
	Software   model.Software       `json:"software"`
	ExportDir  string               `json:"exportDir"`
	Units      []model.AnalysisUnit `json:"units"`

	// ModelFittings is keyed by analysis unit directory.
	ModelFittings map[string]*model.ModelFitting `json:"-"`
	// Contrasts groups contrasts by model fitting and used parameter estimates.
	Contrasts map[model.ContrastKey][]*model.Contrast `json:"-"`
	// Inferences is keyed by contrast estimation id.
	Inferences map[string][]*model.Inference `json:"-"`
}

// parser holds the read-only inputs shared by every stage.
type parser struct {
	featDir    string
	design     *fsf.Document
	postStats  *fsf.Document
	firstLevel bool
	software   model.Software
	smoother   Smoother
}

// Parse reads a FEAT directory and assembles its records.
//
// Fatal errors return (nil, err): missing required files are ErrNotFound,
// malformed content is ErrParse, broken cross references are ErrIntegrity and
// configurations that cannot be represented are ErrUnsupported.
func Parse(ctx context.Context, opts Options) (*Result, error) {
	featDir, err := filepath.Abs(opts.FeatDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.FeatDir, err)
	}
	info, err := os.Stat(featDir)
	if err != nil || !info.IsDir() {
		return nil, oerrors.NewNotFoundError("FEAT directory does not exist", featDir,
			"pass the path of a .feat or .gfeat directory")
	}

	p, err := newParser(featDir, opts)
	if err != nil {
		return nil, err
	}

	units, err := p.discoverUnits()
	if err != nil {
		return nil, err
	}
	output.Debug("discovered analysis units", "dir", featDir, "units", len(units), "firstLevel", p.firstLevel)

	exportDir, err := ExportDir(featDir)
	if err != nil {
		return nil, err
	}

	// Stage 1: MODEL FITTING
	fittings := make(map[string]*model.ModelFitting, len(units))
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mf, err := p.modelFitting(unit)
		if err != nil {
			return nil, err
		}
		fittings[unit.Dir] = mf
	}

	// Stage 2: CONTRASTS
	contrasts := make(map[model.ContrastKey][]*model.Contrast)
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.contrasts(unit, fittings[unit.Dir], contrasts); err != nil {
			return nil, err
		}
	}

	// Stage 3: INFERENCES
	inferences := make(map[string][]*model.Inference)
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.inferences(ctx, unit, fittings[unit.Dir], contrasts, inferences); err != nil {
			return nil, err
		}
	}

	return &Result{
		FeatDir:       featDir,
		FirstLevel:    p.firstLevel,
		Software:      p.software,
		ExportDir:     exportDir,
		Units:         units,
		ModelFittings: fittings,
		Contrasts:     contrasts,
		Inferences:    inferences,
	}, nil
}

func newParser(featDir string, opts Options) (*parser, error) {
	design, err := fsf.Load(filepath.Join(featDir, naming.DesignFSF))
	if err != nil {
		return nil, err
	}

	logName := opts.PostStatsLog
	if logName == "" {
		logName = naming.PostStatsLog
	}
	postStats, err := fsf.LoadOptional(filepath.Join(featDir, naming.LogsDirName, logName))
	if err != nil {
		return nil, err
	}
	if postStats == nil {
		output.Debug("no post-stats log, peak and cluster criteria use defaults", "log", logName)
	}

	level, err := design.Int(fsf.Level)
	if err != nil {
		return nil, err
	}

	version, err := design.Search(fsf.Version)
	if err != nil {
		return nil, err
	}

	smoother := opts.Smoother
	if smoother == nil {
		smoother = ExecSmoother{}
	}

	return &parser{
		featDir:    featDir,
		design:     design,
		postStats:  postStats,
		firstLevel: level == 1,
		software: model.Software{
			ID:      identity.New(identity.KindSoftware, SoftwareName, version),
			Name:    SoftwareName,
			Version: version,
		},
		smoother: smoother,
	}, nil
}

// discoverUnits returns the FEAT directory itself for first-level analyses and
// the sorted cope*.feat folders for higher-level ones.
func (p *parser) discoverUnits() ([]model.AnalysisUnit, error) {
	if p.firstLevel {
		return []model.AnalysisUnit{{Dir: p.featDir, FirstLevel: true}}, nil
	}

	matches, err := filepath.Glob(filepath.Join(p.featDir, naming.CopeDirGlob))
	if err != nil {
		return nil, fmt.Errorf("listing cope directories: %w", err)
	}
	sort.Strings(matches)

	var units []model.AnalysisUnit
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			units = append(units, model.AnalysisUnit{Dir: m})
		}
	}
	if len(units) == 0 {
		return nil, oerrors.NewNotFoundError("higher-level analysis has no cope*.feat directories",
			p.featDir, "")
	}
	return units, nil
}

// rel returns path relative to the FEAT directory, for identities and output.
func (p *parser) rel(path string) string {
	r, err := filepath.Rel(p.featDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}

// optionalFile returns path when the file exists.
func optionalFile(path string) (string, bool) {
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
