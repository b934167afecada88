package fsf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

const sampleFSF = `# FEAT version number
set fmri(version) 6.00

# Analysis level
set fmri(level) 1

# Thresholding
set fmri(thresh) 3
set fmri(prob_thresh) 0.05
set fmri(z_thresh) 2.3

set fmri(evtitle1) "checkerboard"
set fmri(deriv_yn1) 1
set fmri(evtitle2) "motor task"
set fmri(deriv_yn2) 0

set fmri(conname_real.1) "visual > rest"
set fmri(con_real1.1) 1
set fmri(con_real1.2) 0
set fmri(con_real1.3) -1
set fmri(conmask1_1) 0
`

func TestSearch(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	value, err := doc.Search(Level)
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	value, err = doc.Search(ContrastName(1))
	require.NoError(t, err)
	assert.Equal(t, "visual > rest", value)
}

func TestSearch_NotFoundIsParseError(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	_, err := doc.Search(ContrastName(7))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrParse))
	assert.Contains(t, err.Error(), "design.fsf")
}

func TestLookup_Tolerant(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	_, ok := doc.Lookup(AlternateReferenceYN)
	assert.False(t, ok)

	value, ok := doc.Lookup(ZThresh)
	assert.True(t, ok)
	assert.Equal(t, "2.3", value)
}

func TestTypedLookups(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	thresh, err := doc.Int(ThreshType)
	require.NoError(t, err)
	assert.Equal(t, 3, thresh)

	p, err := doc.Float(ProbThresh)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, p, 1e-12)

	deriv, err := doc.Bool(TemporalDerivative(1))
	require.NoError(t, err)
	assert.True(t, deriv)

	deriv, err = doc.Bool(TemporalDerivative(2))
	require.NoError(t, err)
	assert.False(t, deriv)

	version, err := doc.Search(Version)
	require.NoError(t, err)
	assert.Equal(t, "6.00", version)
}

func TestFindAll_ContrastWeights(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	weights := doc.FindAll(ContrastWeights(1))
	assert.Equal(t, []string{"1", "0", "-1"}, weights)
	assert.Empty(t, doc.FindAll(ContrastWeights(2)))
}

func TestFindAllGroups_EVTitles(t *testing.T) {
	doc := New("design.fsf", sampleFSF)

	evs := doc.FindAllGroups(EVTitles)
	require.Len(t, evs, 2)
	assert.Equal(t, "1", evs[0]["num"])
	assert.Equal(t, "checkerboard", evs[0]["name"])
	assert.Equal(t, "motor task", evs[1]["name"])
}

func TestSettingDoesNotMatchLongerKey(t *testing.T) {
	doc := New("design.fsf", "set fmri(regstandard_yn) 1\n")

	_, ok := doc.Lookup(RegStandard)
	assert.False(t, ok)

	value, ok := doc.Lookup(RegStandardYN)
	assert.True(t, ok)
	assert.Equal(t, "1", value)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.fsf")
	require.NoError(t, os.WriteFile(path, []byte(sampleFSF), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, sampleFSF, doc.Text())

	_, err = Load(filepath.Join(dir, "missing.fsf"))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))

	doc, err = LoadOptional(filepath.Join(dir, "missing.fsf"))
	require.NoError(t, err)
	assert.Nil(t, doc)
}
