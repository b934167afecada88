package cmdutil

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nidmfsl/cli/internal/errors"
	"github.com/nidmfsl/cli/internal/feat"
	"github.com/nidmfsl/cli/internal/testutil"
)

type failingSmoother struct{}

func (failingSmoother) Smooth(context.Context, feat.SmoothCommand) error {
	return errors.New("smoothest must not run when estimates are present")
}

func TestParseFeat(t *testing.T) {
	dir := testutil.FirstLevelFEAT(t, testutil.DefaultFSF())

	result, err := ParseFeat(context.Background(), ParseOpts{
		Dir:      dir,
		Smoother: failingSmoother{},
	})
	require.NoError(t, err)
	assert.True(t, result.FirstLevel)
	assert.Len(t, result.ContrastList(), 2)
}

func TestParseFeatMissingDir(t *testing.T) {
	_, err := ParseFeat(context.Background(), ParseOpts{Dir: filepath.Join(t.TempDir(), "absent.feat")})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}
