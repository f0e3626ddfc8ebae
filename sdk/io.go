package sdk

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// ReadModel reads an RKNN compiled model file into memory so it can be
// handed to rknn_init by content. Missing, unreadable, directory and empty
// paths are ErrIO.
func ReadModel(modelFile string) ([]byte, error) {

	info, err := os.Stat(modelFile)

	if err != nil {
		return nil, fmt.Errorf("%w: model file does not exist at %s: %w",
			ErrIO, modelFile, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: model file %s is a directory", ErrIO, modelFile)
	}

	data, err := os.ReadFile(modelFile)

	if err != nil {
		return nil, fmt.Errorf("%w: reading model file %s: %w", ErrIO, modelFile, err)
	}

	// a zero size would make rknn_init treat the argument as a path
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: model file %s is empty", ErrIO, modelFile)
	}

	return data, nil
}

// IONumber represents the C.rknn_input_output_num struct
type IONumber struct {
	NumberInput  uint32
	NumberOutput uint32
}

// SDKVersion represents the C.rknn_sdk_version struct
type SDKVersion struct {
	DriverVersion string
	APIVersion    string
}

// Input represents the C.rknn_input struct and defines the Input used for
// inference
type Input struct {
	// Index is the input index
	Index uint32
	// Buf holds the input data. It is copied into C memory when the inputs
	// are set, so the slice may be reused afterwards.
	Buf []byte
	// Passthrough defines the mode, if True the buf data is passed directly to
	// the input node of the rknn model without any conversion.  If False the
	// buf data is converted into an input consistent with the model according
	// to the following type and fmt
	PassThrough bool
	// Type is the data type of Buf. This is a required parameter if Passthrough
	// is False
	Type TensorType
	// Fmt is the data format of Buf.  This is a required parameter if Passthrough
	// is False
	Fmt TensorFormat
}

// Output holds one inference output copied out of runtime memory. The
// runtime's buffer has already been released when an Output is returned, so
// Buf is owned by Go.
type Output struct {
	// Index is the output index
	Index uint32
	// Type is the element type of Buf, FP32 when the output was requested
	// with want_float
	Type TensorType
	// Buf is the raw output data in native byte order
	Buf []byte
}

// Float32s decodes Buf into float32 values. FP32 and FP16 outputs are
// supported and the buffer length must be a whole number of elements.
func (o Output) Float32s() ([]float32, error) {

	width := o.Type.ElementSize()

	if o.Type != TensorFloat32 && o.Type != TensorFloat16 {
		return nil, fmt.Errorf("%w: output %d has type %s, cannot decode as float",
			ErrRuntimeOutput, o.Index, o.Type)
	}

	if len(o.Buf)%width != 0 {
		return nil, fmt.Errorf("%w: output %d size %d is not a multiple of %d byte %s elements",
			ErrRuntimeOutput, o.Index, len(o.Buf), width, o.Type)
	}

	n := len(o.Buf) / width
	vals := make([]float32, n)

	for i := 0; i < n; i++ {
		if o.Type == TensorFloat32 {
			vals[i] = math.Float32frombits(binary.NativeEndian.Uint32(o.Buf[i*4:]))
		} else {
			vals[i] = halfToFloat32(binary.NativeEndian.Uint16(o.Buf[i*2:]))
		}
	}

	return vals, nil
}

// Dequantize decodes Buf into float32 values using the output's tensor
// attributes. Float outputs are decoded as by Float32s, INT8 and UINT8
// outputs with affine quantization are converted with (q - zp) * scale.
func (o Output) Dequantize(attr TensorAttr) ([]float32, error) {

	if o.Type == TensorFloat32 || o.Type == TensorFloat16 {
		return o.Float32s()
	}

	if attr.QntType != TensorQntAffine || (o.Type != TensorInt8 && o.Type != TensorUint8) {
		return nil, fmt.Errorf("%w: output %d has type %s with %s quantization, cannot dequantize",
			ErrRuntimeOutput, o.Index, o.Type, attr.QntType)
	}

	vals := make([]float32, len(o.Buf))

	for i, b := range o.Buf {

		q := int32(b)

		if o.Type == TensorInt8 {
			q = int32(int8(b))
		}

		vals[i] = float32(q-attr.ZP) * attr.Scale
	}

	return vals, nil
}
