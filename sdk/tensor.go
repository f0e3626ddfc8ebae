package sdk

import (
	"fmt"
)

// maximum field lengths of the fixed size arrays in the RKNN structs
const (
	// MaxDims is RKNN_MAX_DIMS, the capacity of a dims array
	MaxDims = 16
	// MaxNameLength is RKNN_MAX_NAME_LEN including the terminating null
	MaxNameLength = 256
	// MaxDynamicShapes is RKNN_MAX_DYNAMIC_SHAPE_NUM, the capacity of the
	// shape list in a dynamic input range
	MaxDynamicShapes = 512
)

// TensorFormat mirrors rknn_tensor_format
type TensorFormat int

const (
	TensorNCHW      TensorFormat = 0
	TensorNHWC      TensorFormat = 1
	TensorNC1HWC2   TensorFormat = 2
	TensorUndefined TensorFormat = 3
)

// Known reports whether the format is one the runtime documents
func (t TensorFormat) Known() bool {
	return t >= TensorNCHW && t <= TensorUndefined
}

// String returns a readable description of the TensorFormat
func (t TensorFormat) String() string {
	switch t {
	case TensorNCHW:
		return "NCHW"
	case TensorNHWC:
		return "NHWC"
	case TensorNC1HWC2:
		return "NC1HWC2"
	case TensorUndefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("UNRECOGNIZED(%d)", int(t))
	}
}

// TensorType mirrors rknn_tensor_type
type TensorType int

const (
	TensorFloat32 TensorType = 0
	TensorFloat16 TensorType = 1
	TensorInt8    TensorType = 2
	TensorUint8   TensorType = 3
	TensorInt16   TensorType = 4
	TensorUint16  TensorType = 5
	TensorInt32   TensorType = 6
	TensorUint32  TensorType = 7
	TensorInt64   TensorType = 8
	TensorBool    TensorType = 9
	TensorInt4    TensorType = 10
)

// Known reports whether the type is one the runtime documents
func (t TensorType) Known() bool {
	return t >= TensorFloat32 && t <= TensorInt4
}

// ElementSize returns the width in bytes of one element, or zero for
// sub-byte and unrecognized types
func (t TensorType) ElementSize() int {
	switch t {
	case TensorInt8, TensorUint8, TensorBool:
		return 1
	case TensorFloat16, TensorInt16, TensorUint16:
		return 2
	case TensorFloat32, TensorInt32, TensorUint32:
		return 4
	case TensorInt64:
		return 8
	default:
		return 0
	}
}

// String returns a readable description of the TensorType
func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "FP32"
	case TensorFloat16:
		return "FP16"
	case TensorInt8:
		return "INT8"
	case TensorUint8:
		return "UINT8"
	case TensorInt16:
		return "INT16"
	case TensorUint16:
		return "UINT16"
	case TensorInt32:
		return "INT32"
	case TensorUint32:
		return "UINT32"
	case TensorInt64:
		return "INT64"
	case TensorBool:
		return "BOOL"
	case TensorInt4:
		return "INT4"
	default:
		return fmt.Sprintf("UNRECOGNIZED(%d)", int(t))
	}
}

// TensorQntType mirrors rknn_tensor_qnt_type
type TensorQntType int

const (
	TensorQntNone   TensorQntType = 0
	TensorQntDFP    TensorQntType = 1
	TensorQntAffine TensorQntType = 2
)

// Known reports whether the quantization type is one the runtime documents
func (t TensorQntType) Known() bool {
	return t >= TensorQntNone && t <= TensorQntAffine
}

// String returns a readable description of the TensorQntType
func (t TensorQntType) String() string {
	switch t {
	case TensorQntNone:
		return "NONE"
	case TensorQntDFP:
		return "DFP"
	case TensorQntAffine:
		return "AFFINE"
	default:
		return fmt.Sprintf("UNRECOGNIZED(%d)", int(t))
	}
}

// TensorAttr represents the C.rknn_tensor_attr structure. Only the first
// NDims entries of Dims are meaningful.
type TensorAttr struct {
	Index          uint32
	NDims          uint32
	Dims           [MaxDims]uint32
	Name           string
	NElems         uint32
	Size           uint32
	Fmt            TensorFormat
	Type           TensorType
	QntType        TensorQntType
	FL             int8
	ZP             int32
	Scale          float32
	WStride        uint32
	SizeWithStride uint32
	PassThrough    bool
	HStride        uint32
}

// Shape returns a copy of the valid dimensions
func (a TensorAttr) Shape() []uint32 {

	n := a.NDims

	if n > MaxDims {
		n = MaxDims
	}

	shape := make([]uint32, n)
	copy(shape, a.Dims[:n])

	return shape
}

// SetShape overwrites the valid dimensions with shape. The rank of shape must
// match NDims.
func (a *TensorAttr) SetShape(shape []uint32) error {

	if len(shape) != int(a.NDims) || len(shape) > MaxDims {
		return fmt.Errorf("%w: tensor %d (%s) has %d dims, shape %v has rank %d",
			ErrShapeApply, a.Index, a.Name, a.NDims, shape, len(shape))
	}

	copy(a.Dims[:], shape)

	return nil
}

// ImageSize returns the width, height and channel count of a 4 dimensional
// image tensor, reading the dims in the order given by the tensor format
func (a TensorAttr) ImageSize() (width, height, channels uint32, err error) {

	if a.NDims != 4 {
		return 0, 0, 0, fmt.Errorf("%w: tensor %d (%s) has %d dims, expected 4",
			ErrConfiguration, a.Index, a.Name, a.NDims)
	}

	if a.Fmt == TensorNHWC {
		return a.Dims[2], a.Dims[1], a.Dims[3], nil
	}

	return a.Dims[3], a.Dims[2], a.Dims[1], nil
}

// String returns the TensorAttr's attributes formatted as a string
func (a TensorAttr) String() string {

	return fmt.Sprintf("index=%d, name=%s, n_dims=%d, dims=%v, n_elems=%d, "+
		"size=%d, w_stride=%d, size_with_stride=%d, fmt=%s, type=%s, "+
		"qnt_type=%s, zp=%d, scale=%f",
		a.Index, a.Name, a.NDims, a.Shape(), a.NElems, a.Size, a.WStride,
		a.SizeWithStride, a.Fmt.String(), a.Type.String(), a.QntType.String(),
		a.ZP, a.Scale,
	)
}
