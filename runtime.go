package rknnapi

/*
#cgo LDFLAGS: -lrknnrt
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"github.com/rknn-go/go-rknnapi/sdk"
	"log/slog"
	"unsafe"
)

// Runtime owns one RKNN context. It is created by Open and must be released
// with Close once. A Runtime is not safe for concurrent use, the RKNN API
// makes no guarantees about calls on one context from several threads.
type Runtime struct {
	// ctx is the C runtime context
	ctx C.rknn_context
	// ioNum caches the IONumber of Model Input/Output tensors
	ioNum sdk.IONumber
	// outputAttrs caches the last queried Output Tensor Attributes, used to
	// type outputs fetched without want_float
	outputAttrs []sdk.TensorAttr
	// wantFloat indicates if Outputs are converted to float32 or left in the
	// model's native output type. default option is True
	wantFloat bool
	// closed is set once rknn_destroy has been called
	closed bool
	log    *slog.Logger
}

// Open loads the RKNN compiled model file into a new runtime context and
// queries its number of inputs and outputs.
func Open(modelFile string) (*Runtime, error) {
	return OpenWithLogger(modelFile, slog.Default())
}

// OpenWithLogger is Open with the logger the runtime reports lifecycle
// events to
func OpenWithLogger(modelFile string, log *slog.Logger) (*Runtime, error) {

	r := &Runtime{
		wantFloat: true,
		log:       log.With("model", modelFile),
	}

	err := r.init(modelFile)

	if err != nil {
		return nil, err
	}

	r.ioNum, err = r.queryIONumber()

	if err != nil {
		// context was created so must still be destroyed
		if cerr := r.Close(); cerr != nil {
			r.log.Warn("destroying context after failed load", "error", cerr)
		}

		return nil, err
	}

	r.log.Debug("model loaded", "inputs", r.ioNum.NumberInput,
		"outputs", r.ioNum.NumberOutput)

	return r, nil
}

// init wraps C.rknn_init which initializes the RKNN context with the given
// model.  The modelFile is the full path and filename of the RKNN compiled
// model file to run, it is read in Go and passed to the runtime by content.
func (r *Runtime) init(modelFile string) error {

	data, err := sdk.ReadModel(modelFile)

	if err != nil {
		return err
	}

	cModel := C.CBytes(data)
	defer C.free(cModel)

	ret := C.rknn_init(&r.ctx, cModel, C.uint32_t(len(data)), 0, nil)

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_init", int(ret), sdk.ErrRuntimeInit)
	}

	return nil
}

// check returns ErrClosed once the context has been destroyed
func (r *Runtime) check() error {

	if r.closed {
		return sdk.ErrClosed
	}

	return nil
}

// SetCoreMask wraps C.rknn_set_core_mask and specifies the NPU core
// configuration to run the model on. NPUSkipSetCore is a no-op.
func (r *Runtime) SetCoreMask(mask sdk.CoreMask) error {

	if err := r.check(); err != nil {
		return err
	}

	if mask == sdk.NPUSkipSetCore {
		return nil
	}

	ret := C.rknn_set_core_mask(r.ctx, C.rknn_core_mask(mask))

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_set_core_mask", int(ret), nil)
	}

	return nil
}

// Close wraps C.rknn_destroy which unloads the RKNN model from the runtime and
// destroys the context releasing all C resources. Only the first call
// reaches the C API.
func (r *Runtime) Close() error {

	if r.closed {
		return nil
	}

	r.closed = true

	ret := C.rknn_destroy(r.ctx)

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_destroy", int(ret), nil)
	}

	r.log.Debug("context destroyed")

	return nil
}

// SetWantFloat defines if Output tensors are converted to float32 by the
// runtime, or left in the model's native output type
func (r *Runtime) SetWantFloat(val bool) {
	r.wantFloat = val
}

// IONumber returns the number of Input and Output tensors cached at load time
func (r *Runtime) IONumber() sdk.IONumber {
	return r.ioNum
}

// SDKVersion returns the RKNN API and Driver versions
func (r *Runtime) SDKVersion() (sdk.SDKVersion, error) {

	if err := r.check(); err != nil {
		return sdk.SDKVersion{}, err
	}

	var cSdkVer C.rknn_sdk_version

	ret := C.rknn_query(
		r.ctx,
		C.RKNN_QUERY_SDK_VERSION,
		unsafe.Pointer(&cSdkVer),
		C.uint(C.sizeof_rknn_sdk_version),
	)

	if ret != C.RKNN_SUCC {
		return sdk.SDKVersion{}, sdk.NewCallError("rknn_query RKNN_QUERY_SDK_VERSION",
			int(ret), sdk.ErrQuery)
	}

	return sdk.SDKVersion{
		DriverVersion: C.GoString(&(cSdkVer.drv_version[0])),
		APIVersion:    C.GoString(&(cSdkVer.api_version[0])),
	}, nil
}
