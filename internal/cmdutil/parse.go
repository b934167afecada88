package cmdutil

import (
	"context"

	"github.com/nidmfsl/cli/internal/feat"
	"github.com/nidmfsl/cli/internal/output"
)

// ParseOpts holds the inputs for ParseFeat.
type ParseOpts struct {
	Dir          string
	PostStatsLog string
	Smoothest    string
	// Smoother overrides the smoothest binary, mainly for tests.
	Smoother feat.Smoother
}

// ParseFeat runs the parser behind a spinner and logs what it assembled.
func ParseFeat(ctx context.Context, opts ParseOpts) (*feat.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	smoother := opts.Smoother
	if smoother == nil {
		smoother = feat.ExecSmoother{Binary: opts.Smoothest}
	}

	var result *feat.Result
	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var err error
		result, err = feat.Parse(ctx, feat.Options{
			FeatDir:      opts.Dir,
			PostStatsLog: opts.PostStatsLog,
			Smoother:     smoother,
		})
		return err
	}, output.WithTitle("Parsing "+opts.Dir))
	if err != nil {
		return nil, err
	}

	output.Debug("parsed FEAT directory",
		"dir", result.FeatDir,
		"units", len(result.Units),
		"contrasts", len(result.ContrastList()),
		"inferences", len(result.InferenceList()),
	)
	return result, nil
}
