package driver

import "github.com/rknn-go/go-rknnapi/sdk"

// Engine is the runtime context the driver sequences calls into. The
// rknnapi.Runtime type implements it.
type Engine interface {
	// IONumber returns the input and output counts cached at load time
	IONumber() sdk.IONumber
	SDKVersion() (sdk.SDKVersion, error)
	QueryInputTensors() ([]sdk.TensorAttr, error)
	QueryOutputTensors() ([]sdk.TensorAttr, error)
	QueryInputRanges() ([]sdk.InputRange, error)
	SetInputShapes(attrs []sdk.TensorAttr) error
	SetCoreMask(mask sdk.CoreMask) error
	SetInputs(inputs []sdk.Input) error
	RunModel() error
	GetOutputs() ([]sdk.Output, error)
	// Close destroys the context, it must be called exactly once
	Close() error
}

// Opener loads a model file into a new Engine
type Opener func(modelFile string) (Engine, error)

// OutputFormatter is implemented by engines that can return outputs in the
// model's native type rather than float32
type OutputFormatter interface {
	SetWantFloat(val bool)
}
