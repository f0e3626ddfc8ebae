package sdk

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nhwc(dims ...uint32) TensorAttr {

	attr := TensorAttr{Name: "input", NDims: uint32(len(dims)), Fmt: TensorNHWC, Type: TensorUint8}
	copy(attr.Dims[:], dims)

	return attr
}

func TestEnumStrings(t *testing.T) {

	assert.Equal(t, "NC1HWC2", TensorNC1HWC2.String())
	assert.Equal(t, "UNRECOGNIZED(7)", TensorFormat(7).String())
	assert.False(t, TensorFormat(7).Known())

	assert.Equal(t, "FP16", TensorFloat16.String())
	assert.Equal(t, "INT4", TensorInt4.String())
	assert.Equal(t, "UNRECOGNIZED(11)", TensorType(11).String())
	assert.False(t, TensorType(-1).Known())

	assert.Equal(t, "AFFINE", TensorQntAffine.String())
	assert.Equal(t, "UNRECOGNIZED(3)", TensorQntType(3).String())
}

func TestElementSize(t *testing.T) {

	assert.Equal(t, 4, TensorFloat32.ElementSize())
	assert.Equal(t, 2, TensorFloat16.ElementSize())
	assert.Equal(t, 1, TensorUint8.ElementSize())
	assert.Equal(t, 8, TensorInt64.ElementSize())
	assert.Equal(t, 0, TensorInt4.ElementSize())
}

func TestTensorAttrShape(t *testing.T) {

	attr := nhwc(1, 224, 224, 3)
	assert.Equal(t, []uint32{1, 224, 224, 3}, attr.Shape())

	shape := attr.Shape()
	shape[1] = 7
	assert.Equal(t, uint32(224), attr.Dims[1], "Shape must return a copy")

	require.NoError(t, attr.SetShape([]uint32{1, 112, 160, 3}))
	assert.Equal(t, []uint32{1, 112, 160, 3}, attr.Shape())

	err := attr.SetShape([]uint32{1, 112, 3})
	assert.True(t, errors.Is(err, ErrShapeApply))
	assert.Equal(t, []uint32{1, 112, 160, 3}, attr.Shape())
}

func TestImageSize(t *testing.T) {

	w, h, c, err := nhwc(1, 120, 160, 3).ImageSize()
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{160, 120, 3}, [3]uint32{w, h, c})

	nchw := nhwc(1, 3, 120, 160)
	nchw.Fmt = TensorNCHW

	w, h, c, err = nchw.ImageSize()
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{160, 120, 3}, [3]uint32{w, h, c})

	_, _, _, err = nhwc(1, 1000).ImageSize()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestInputRange(t *testing.T) {

	r := InputRange{Index: 0, Name: "input", Fmt: TensorNHWC, NDims: 4, ShapeNumber: 2,
		Shapes: make([][MaxDims]uint32, 2)}
	copy(r.Shapes[0][:], []uint32{1, 224, 224, 3})
	copy(r.Shapes[1][:], []uint32{1, 160, 160, 3})

	require.NoError(t, r.Validate(nhwc(1, 224, 224, 3)))

	shape, err := r.Shape(1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 160, 160, 3}, shape)

	_, err = r.Shape(2)
	assert.True(t, errors.Is(err, ErrShapeApply))

	_, err = r.Shape(-1)
	assert.True(t, errors.Is(err, ErrShapeApply))

	assert.True(t, errors.Is(r.Validate(nhwc(1, 224, 3)), ErrShapeApply))

	assert.Equal(t, "index=0, name=input, shape_number=2, range=[[1 224 224 3], [1 160 160 3]], fmt=NHWC",
		r.String())

	assert.Equal(t, 2, DynamicShapeCount([]InputRange{r}))
	assert.Equal(t, 0, DynamicShapeCount(nil))
}

func TestInputRangeShapeNumberBounds(t *testing.T) {

	r := InputRange{NDims: 4, ShapeNumber: 3, Shapes: make([][MaxDims]uint32, 2)}
	assert.True(t, errors.Is(r.Validate(nhwc(1, 2, 2, 3)), ErrShapeApply))

	r = InputRange{NDims: 4, ShapeNumber: MaxDynamicShapes + 1,
		Shapes: make([][MaxDims]uint32, MaxDynamicShapes+1)}
	assert.True(t, errors.Is(r.Validate(nhwc(1, 2, 2, 3)), ErrShapeApply))
}

func TestOutputFloat32s(t *testing.T) {

	buf := make([]byte, 12)

	for i, v := range []float32{0.5, -1, 3.25} {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	vals, err := Output{Type: TensorFloat32, Buf: buf}.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 3.25}, vals)

	_, err = Output{Type: TensorFloat32, Buf: buf[:10]}.Float32s()
	assert.True(t, errors.Is(err, ErrRuntimeOutput))
}

func TestOutputFloat16s(t *testing.T) {

	buf := make([]byte, 6)

	// 1.0, -2.0 and 0.5 in IEEE 754 half precision
	for i, bits := range []uint16{0x3c00, 0xc000, 0x3800} {
		binary.NativeEndian.PutUint16(buf[i*2:], bits)
	}

	vals, err := Output{Type: TensorFloat16, Buf: buf}.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -2, 0.5}, vals)

	_, err = Output{Type: TensorFloat16, Buf: buf[:5]}.Float32s()
	assert.True(t, errors.Is(err, ErrRuntimeOutput))
}

func TestOutputFloat32sRejectsQuantized(t *testing.T) {

	for _, typ := range []TensorType{TensorInt8, TensorUint8, TensorInt4} {
		_, err := Output{Type: typ, Buf: make([]byte, 4)}.Float32s()
		assert.True(t, errors.Is(err, ErrRuntimeOutput), typ.String())
	}
}
