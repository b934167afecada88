package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"

	oerrors "github.com/nidmfsl/cli/internal/errors"
)

// Image is a NIfTI-1 header with its voxel values.
type Image struct {
	Header Header
	Data   []float64
}

// New creates a float image with the given dimensions and voxel size in mm.
func New(dims []int, voxelSize []float64, data []float64) *Image {
	var h Header
	h.SizeofHdr = headerSize
	h.Dim[0] = int16(len(dims))
	for i, d := range dims {
		h.Dim[i+1] = int16(d)
	}
	h.Pixdim[0] = 1
	for i, v := range voxelSize {
		if i < 7 {
			h.Pixdim[i+1] = float32(v)
		}
	}
	h.XyztUnits = 2 | 8 // mm, seconds
	h.QformCode = 1
	h.SformCode = 1
	h.SrowX = [4]float32{h.Pixdim[1], 0, 0, 0}
	h.SrowY = [4]float32{0, h.Pixdim[2], 0, 0}
	h.SrowZ = [4]float32{0, 0, h.Pixdim[3], 0}
	return &Image{Header: h, Data: data}
}

// ReadHeader reads only the header of an image.
func ReadHeader(path string) (*Header, error) {
	raw, err := readRaw(path, headerSize)
	if err != nil {
		return nil, err
	}
	h, _, err := decodeHeader(path, raw)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Read reads an image and converts its voxels to float64, applying scl_slope/scl_inter.
func Read(path string) (*Image, error) {
	raw, err := readRaw(path, -1)
	if err != nil {
		return nil, err
	}
	h, order, err := decodeHeader(path, raw)
	if err != nil {
		return nil, err
	}

	width := h.bytesPerVoxel()
	if width == 0 {
		return nil, oerrors.NewUnsupportedError(
			fmt.Sprintf("datatype %d is not supported", h.Datatype), "datatype", "")
	}
	n := h.NumVoxels()
	start := h.dataOffset()
	end := start + n*width
	if end > len(raw) {
		return nil, oerrors.NewParseError(
			fmt.Sprintf("image holds %d bytes of data, expected %d", len(raw)-start, n*width), path, "")
	}

	data := make([]float64, n)
	buf := raw[start:end]
	for i := range data {
		data[i] = decodeVoxel(h.Datatype, order, buf[i*width:(i+1)*width])
	}

	if h.SclSlope != 0 && !(h.SclSlope == 1 && h.SclInter == 0) {
		slope, inter := float64(h.SclSlope), float64(h.SclInter)
		for i := range data {
			data[i] = data[i]*slope + inter
		}
	}

	return &Image{Header: *h, Data: data}, nil
}

// Write stores the image as little-endian float32. Paths ending in .gz are compressed.
// An existing file is replaced.
func (img *Image) Write(path string) error {
	h := img.Header
	h.SizeofHdr = headerSize
	h.Datatype = DTFloat32
	h.Bitpix = 32
	h.VoxOffset = singleOffset
	h.SclSlope = 1
	h.SclInter = 0
	h.Magic = singleFileMagic

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	buf.Write(make([]byte, singleOffset-headerSize))
	values := make([]float32, len(img.Data))
	for i, v := range img.Data {
		values[i] = float32(v)
	}
	if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
		return fmt.Errorf("encoding voxels: %w", err)
	}

	payload := buf.Bytes()
	if strings.HasSuffix(path, ".gz") {
		var gz bytes.Buffer
		zw := gzip.NewWriter(&gz)
		if _, err := zw.Write(payload); err != nil {
			return fmt.Errorf("compressing %s: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing %s: %w", path, err)
		}
		payload = gz.Bytes()
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Sum returns the voxel-wise sum of two images with identical dimensions.
// The result keeps the geometry of b.
func Sum(a, b *Image) (*Image, error) {
	if len(a.Data) != len(b.Data) || !sameDims(a.Header.Dims(), b.Header.Dims()) {
		return nil, oerrors.NewIntegrityError("images have different dimensions", map[string]string{
			"Left":  fmt.Sprint(a.Header.Dims()),
			"Right": fmt.Sprint(b.Header.Dims()),
		})
	}
	sum := make([]float64, len(a.Data))
	floats.AddTo(sum, a.Data, b.Data)
	return &Image{Header: b.Header, Data: sum}, nil
}

func sameDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// readRaw returns the decompressed bytes of path, or only the first limit bytes when limit > 0.
func readRaw(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("image does not exist", path, "")
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, oerrors.NewParseError(fmt.Sprintf("not a gzip stream: %v", err), path, "")
		}
		defer zr.Close()
		r = zr
	}
	if limit > 0 {
		r = io.LimitReader(r, int64(limit))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return raw, nil
}

func decodeHeader(path string, raw []byte) (*Header, binary.ByteOrder, error) {
	if len(raw) < headerSize {
		return nil, nil, oerrors.NewParseError("file is shorter than a NIfTI-1 header", path, "")
	}
	order := byteOrder(raw)
	var h Header
	if err := binary.Read(bytes.NewReader(raw[:headerSize]), order, &h); err != nil {
		return nil, nil, fmt.Errorf("decoding header of %s: %w", path, err)
	}
	if h.SizeofHdr != headerSize {
		return nil, nil, oerrors.NewParseError("invalid NIfTI-1 header size", path, "sizeof_hdr")
	}
	if h.Magic != singleFileMagic {
		return nil, nil, oerrors.NewUnsupportedError(
			"only single-file NIfTI-1 images are supported", "magic", "convert .hdr/.img pairs with fslchfiletype")
	}
	return &h, order, nil
}

func decodeVoxel(dt int16, order binary.ByteOrder, b []byte) float64 {
	switch dt {
	case DTUint8:
		return float64(b[0])
	case DTInt8:
		return float64(int8(b[0]))
	case DTInt16:
		return float64(int16(order.Uint16(b)))
	case DTUint16:
		return float64(order.Uint16(b))
	case DTInt32:
		return float64(int32(order.Uint32(b)))
	case DTUint32:
		return float64(order.Uint32(b))
	case DTFloat32:
		return float64(math.Float32frombits(order.Uint32(b)))
	case DTFloat64:
		return math.Float64frombits(order.Uint64(b))
	default:
		return math.NaN()
	}
}
