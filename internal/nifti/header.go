// Package nifti reads and writes single-file NIfTI-1 images (.nii and .nii.gz).
//
// Only what result parsing needs is supported: header geometry, voxel data as
// float64 and writing derived float32 volumes.
package nifti

import (
	"encoding/binary"
	"strings"
)

// Header is the 348-byte NIfTI-1 header.
type Header struct {
	SizeofHdr          int32
	UnusedDataType     [10]byte
	UnusedDbName       [18]byte
	UnusedExtents      int32
	UnusedSessionError int16
	UnusedRegular      byte
	DimInfo            byte
	Dim                [8]int16
	IntentP1           float32
	IntentP2           float32
	IntentP3           float32
	IntentCode         int16
	Datatype           int16
	Bitpix             int16
	SliceStart         int16
	Pixdim             [8]float32
	VoxOffset          float32
	SclSlope           float32
	SclInter           float32
	SliceEnd           int16
	SliceCode          byte
	XyztUnits          byte
	CalMax             float32
	CalMin             float32
	SliceDuration      float32
	Toffset            float32
	UnusedGlmax        int32
	UnusedGlmin        int32
	Descrip            [80]byte
	AuxFile            [24]byte
	QformCode          int16
	SformCode          int16
	QuaternB           float32
	QuaternC           float32
	QuaternD           float32
	QoffsetX           float32
	QoffsetY           float32
	QoffsetZ           float32
	SrowX              [4]float32
	SrowY              [4]float32
	SrowZ              [4]float32
	IntentName         [16]byte
	Magic              [4]byte
}

const (
	headerSize   = 348
	singleOffset = 352
)

var singleFileMagic = [4]byte{'n', '+', '1', 0}

// Datatype codes.
const (
	DTUint8   int16 = 2
	DTInt16   int16 = 4
	DTInt32   int16 = 8
	DTFloat32 int16 = 16
	DTFloat64 int16 = 64
	DTInt8    int16 = 256
	DTUint16  int16 = 512
	DTUint32  int16 = 768
)

// Dims returns the size of each used dimension.
func (h *Header) Dims() []int {
	n := int(h.Dim[0])
	if n < 1 || n > 7 {
		return nil
	}
	dims := make([]int, n)
	for i := range dims {
		dims[i] = int(h.Dim[i+1])
	}
	return dims
}

// NumVoxels returns the number of values stored in the image.
func (h *Header) NumVoxels() int {
	total := 1
	for _, d := range h.Dims() {
		if d > 0 {
			total *= d
		}
	}
	return total
}

// VoxelSize returns the spatial voxel dimensions (pixdim[1..3]).
func (h *Header) VoxelSize() []float64 {
	return []float64{float64(h.Pixdim[1]), float64(h.Pixdim[2]), float64(h.Pixdim[3])}
}

// SpatialUnits returns the unit of the voxel dimensions.
func (h *Header) SpatialUnits() string {
	switch h.XyztUnits & 0x07 {
	case 1:
		return "m"
	case 2:
		return "mm"
	case 3:
		return "um"
	default:
		return "unknown"
	}
}

// Description returns the header description string.
func (h *Header) Description() string {
	return strings.TrimRight(string(h.Descrip[:]), "\x00")
}

func (h *Header) dataOffset() int {
	if int(h.VoxOffset) < singleOffset {
		return singleOffset
	}
	return int(h.VoxOffset)
}

func (h *Header) bytesPerVoxel() int {
	switch h.Datatype {
	case DTUint8, DTInt8:
		return 1
	case DTInt16, DTUint16:
		return 2
	case DTInt32, DTUint32, DTFloat32:
		return 4
	case DTFloat64:
		return 8
	default:
		return 0
	}
}

// byteOrder guesses the header endianness from sizeof_hdr.
func byteOrder(raw []byte) binary.ByteOrder {
	if binary.LittleEndian.Uint32(raw[:4]) == headerSize {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
