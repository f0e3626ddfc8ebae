package driver

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/rknn-go/go-rknnapi/preprocess"
	"github.com/rknn-go/go-rknnapi/sdk"
)

// fakeEngine records every call made to it and serves canned attributes.
// Input dims follow the most recent SetInputShapes call.
type fakeEngine struct {
	ioNum   sdk.IONumber
	inputs  []sdk.TensorAttr
	outputs []sdk.TensorAttr
	ranges  []sdk.InputRange
	scores  []float32

	// errs maps a call name to the error it returns
	errs map[string]error
	// rejectShape is the shape index SetInputShapes fails on, -1 for none
	rejectShape int

	calls      []string
	closeCount int
	shapesSet  int
	setInputs  [][]sdk.Input
	coreMasks  []sdk.CoreMask
	// wantFloat is false once native outputs were requested
	wantFloat bool
}

func newFakeEngine(nInputs int, ranges []sdk.InputRange) *fakeEngine {

	f := &fakeEngine{
		ioNum:       sdk.IONumber{NumberInput: uint32(nInputs), NumberOutput: 1},
		ranges:      ranges,
		scores:      []float32{0.1, 0.9, 0.3, 0.7, 0.2, 0.05},
		errs:        map[string]error{},
		rejectShape: -1,
		wantFloat:   true,
	}

	for i := 0; i < nInputs; i++ {
		attr := sdk.TensorAttr{Index: uint32(i), Name: "input", NDims: 4, Fmt: sdk.TensorNHWC,
			Type: sdk.TensorUint8}
		copy(attr.Dims[:], []uint32{1, 224, 224, 3})
		f.inputs = append(f.inputs, attr)
	}

	out := sdk.TensorAttr{Index: 0, Name: "output", NDims: 2, Fmt: sdk.TensorUndefined,
		Type: sdk.TensorFloat32}
	copy(out.Dims[:], []uint32{1, 6})
	f.outputs = []sdk.TensorAttr{out}

	return f
}

func (f *fakeEngine) call(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeEngine) IONumber() sdk.IONumber { return f.ioNum }

func (f *fakeEngine) SDKVersion() (sdk.SDKVersion, error) {
	return sdk.SDKVersion{APIVersion: "2.3.0", DriverVersion: "0.9.6"}, f.call("sdk_version")
}

func (f *fakeEngine) QueryInputTensors() ([]sdk.TensorAttr, error) {

	if err := f.call("query_inputs"); err != nil {
		return nil, err
	}

	attrs := make([]sdk.TensorAttr, len(f.inputs))
	copy(attrs, f.inputs)

	return attrs, nil
}

func (f *fakeEngine) QueryOutputTensors() ([]sdk.TensorAttr, error) {

	if err := f.call("query_outputs"); err != nil {
		return nil, err
	}

	return f.outputs, nil
}

func (f *fakeEngine) QueryInputRanges() ([]sdk.InputRange, error) {
	return f.ranges, f.call("query_ranges")
}

func (f *fakeEngine) SetInputShapes(attrs []sdk.TensorAttr) error {

	if err := f.call("set_input_shapes"); err != nil {
		return err
	}

	shape := f.shapesSet
	f.shapesSet++

	if shape == f.rejectShape {
		return sdk.NewCallError("rknn_set_input_shapes", int(sdk.ErrParamInvalid), sdk.ErrShapeApply)
	}

	copy(f.inputs, attrs)

	return nil
}

func (f *fakeEngine) SetCoreMask(mask sdk.CoreMask) error {
	f.coreMasks = append(f.coreMasks, mask)
	return f.call("set_core_mask")
}

func (f *fakeEngine) SetInputs(inputs []sdk.Input) error {
	f.setInputs = append(f.setInputs, inputs)
	return f.call("set_inputs")
}

func (f *fakeEngine) RunModel() error {
	return f.call("run")
}

func (f *fakeEngine) GetOutputs() ([]sdk.Output, error) {

	if err := f.call("get_outputs"); err != nil {
		return nil, err
	}

	if out := f.outputs[0]; !f.wantFloat && out.Type == sdk.TensorInt8 {
		buf := make([]byte, len(f.scores))

		for i, v := range f.scores {
			buf[i] = byte(int8(math.Round(float64(v/out.Scale)) + float64(out.ZP)))
		}

		return []sdk.Output{{Index: 0, Type: sdk.TensorInt8, Buf: buf}}, nil
	}

	buf := make([]byte, 4*len(f.scores))

	for i, v := range f.scores {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return []sdk.Output{{Index: 0, Type: sdk.TensorFloat32, Buf: buf}}, nil
}

func (f *fakeEngine) SetWantFloat(val bool) {
	f.calls = append(f.calls, "set_want_float")
	f.wantFloat = val
}

func (f *fakeEngine) Close() error {
	f.closeCount++
	return f.call("close")
}

// count returns how many times the named call was made
func (f *fakeEngine) count(name string) int {

	n := 0

	for _, c := range f.calls {
		if c == name {
			n++
		}
	}

	return n
}

// opener returns an Opener serving f
func (f *fakeEngine) opener() Opener {
	return func(string) (Engine, error) {
		return f, nil
	}
}

// squareRanges returns one range per input holding the given square image
// sizes in NHWC order
func squareRanges(nInputs int, sizes ...uint32) []sdk.InputRange {

	ranges := make([]sdk.InputRange, nInputs)

	for i := range ranges {
		ranges[i] = sdk.InputRange{
			Index:       uint32(i),
			Name:        "input",
			Fmt:         sdk.TensorNHWC,
			NDims:       4,
			ShapeNumber: uint32(len(sizes)),
			Shapes:      make([][sdk.MaxDims]uint32, len(sizes)),
		}

		for s, size := range sizes {
			copy(ranges[i].Shapes[s][:], []uint32{1, size, size, 3})
		}
	}

	return ranges
}

// fakeSource is a preprocess.Source producing a blank image
type fakeSource struct {
	closed *int
}

func (s fakeSource) RGB(width, height int) ([]byte, error) {
	return make([]byte, width*height*3), nil
}

func (s fakeSource) Close() error {
	*s.closed++
	return nil
}

// fakeDecoder hands out fakeSources and counts how many were closed
type fakeDecoder struct {
	decoded int
	closed  int
	err     error
}

func (d *fakeDecoder) Decode(string) (preprocess.Source, error) {

	if d.err != nil {
		return nil, d.err
	}

	d.decoded++

	return fakeSource{closed: &d.closed}, nil
}

// stepClock returns a clock advancing by step on every reading
func stepClock(step time.Duration) func() time.Time {

	now := time.Unix(0, 0)

	return func() time.Time {
		now = now.Add(step)
		return now
	}
}
