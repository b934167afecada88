package nifti

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

func TestWriteRead_RoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pe1.nii.gz")
	data := []float64{0, 1.5, -2, 3.25, 4, 5, 6, 7}

	require.NoError(t, New([]int{2, 2, 2}, []float64{2, 2, 3}, data).Write(path))

	img, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, img.Header.Dims())
	assert.Equal(t, []float64{2, 2, 3}, img.Header.VoxelSize())
	assert.Equal(t, "mm", img.Header.SpatialUnits())
	assert.InDeltaSlice(t, data, img.Data, 1e-6)
}

func TestReadHeader_Uncompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.nii")
	require.NoError(t, New([]int{3, 1, 1}, []float64{1, 1, 1}, []float64{1, 1, 0}).Write(path))

	h, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, 3, h.NumVoxels())
	assert.Equal(t, DTFloat32, h.Datatype)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.nii.gz"))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestRead_NotNifti(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.nii")
	require.NoError(t, os.WriteFile(path, make([]byte, 400), 0o644))

	_, err := Read(path)
	assert.True(t, errors.Is(err, oerrors.ErrParse))
}

func TestSum(t *testing.T) {
	a := New([]int{2, 1, 1}, []float64{1, 1, 1}, []float64{1, 2})
	b := New([]int{2, 1, 1}, []float64{2, 2, 2}, []float64{0.5, 0.25})

	sum, err := Sum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.25}, sum.Data)
	assert.Equal(t, []float64{2, 2, 2}, sum.Header.VoxelSize())
}

func TestSum_DimensionMismatch(t *testing.T) {
	a := New([]int{2, 1, 1}, []float64{1, 1, 1}, []float64{1, 2})
	b := New([]int{1, 2, 1}, []float64{1, 1, 1}, []float64{1, 2})

	_, err := Sum(a, b)
	assert.True(t, errors.Is(err, oerrors.ErrIntegrity))
}
