package rknnapi

/*
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"github.com/rknn-go/go-rknnapi/sdk"
	"unsafe"
)

// SetInputs wraps C.rknn_inputs_set. Each buffer is copied to C memory for
// the duration of the call, the runtime copies the data into its own input
// tensors before returning.
func (r *Runtime) SetInputs(inputs []sdk.Input) error {

	if err := r.check(); err != nil {
		return err
	}

	if len(inputs) == 0 {
		return fmt.Errorf("%w: no inputs given", sdk.ErrConfiguration)
	}

	cInputs := make([]C.rknn_input, len(inputs))
	cBufs := make([]unsafe.Pointer, 0, len(inputs))

	defer func() {
		for _, buf := range cBufs {
			C.free(buf)
		}
	}()

	for i, input := range inputs {

		if len(input.Buf) == 0 {
			return fmt.Errorf("%w: input %d has an empty buffer",
				sdk.ErrConfiguration, input.Index)
		}

		buf := C.CBytes(input.Buf)
		cBufs = append(cBufs, buf)

		cInputs[i].index = C.uint32_t(input.Index)
		cInputs[i].buf = buf
		cInputs[i].size = C.uint32_t(len(input.Buf))
		cInputs[i].pass_through = C.uint8_t(0)

		if input.PassThrough {
			cInputs[i].pass_through = C.uint8_t(1)
		}

		cInputs[i]._type = C.rknn_tensor_type(input.Type)
		cInputs[i].fmt = C.rknn_tensor_format(input.Fmt)
	}

	ret := C.rknn_inputs_set(r.ctx, C.uint32_t(len(cInputs)), &cInputs[0])

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_inputs_set", int(ret), nil)
	}

	return nil
}

// RunModel wraps C.rknn_run, blocking until inference completes
func (r *Runtime) RunModel() error {

	if err := r.check(); err != nil {
		return err
	}

	ret := C.rknn_run(r.ctx, nil)

	if ret < 0 {
		return sdk.NewCallError("rknn_run", int(ret), nil)
	}

	return nil
}

// GetOutputs wraps C.rknn_outputs_get. The runtime allocated buffers are
// copied into the returned Outputs and then handed back with
// rknn_outputs_release before returning, so callers never hold C memory and
// never release anything themselves.
func (r *Runtime) GetOutputs() ([]sdk.Output, error) {

	if err := r.check(); err != nil {
		return nil, err
	}

	nOutputs := r.ioNum.NumberOutput

	if nOutputs == 0 {
		return nil, fmt.Errorf("%w: model has no outputs", sdk.ErrRuntimeOutput)
	}

	wantFloat := C.uint8_t(1)

	if !r.wantFloat {
		wantFloat = 0

		// output types are needed to label the raw buffers
		if len(r.outputAttrs) != int(nOutputs) {
			if _, err := r.QueryOutputTensors(); err != nil {
				return nil, err
			}
		}
	}

	cOutputs := make([]C.rknn_output, nOutputs)

	for idx := range cOutputs {
		cOutputs[idx].index = C.uint32_t(idx)
		cOutputs[idx].want_float = wantFloat
		cOutputs[idx].is_prealloc = 0
	}

	ret := C.rknn_outputs_get(r.ctx, C.uint32_t(nOutputs), &cOutputs[0], nil)

	if ret < 0 {
		return nil, sdk.NewCallError("rknn_outputs_get", int(ret), sdk.ErrRuntimeOutput)
	}

	outputs := make([]sdk.Output, nOutputs)

	for i, cOutput := range cOutputs {
		outputs[i] = sdk.Output{
			Index: uint32(cOutput.index),
			Type:  sdk.TensorFloat32,
		}

		if cOutput.want_float == 0 {
			outputs[i].Type = r.outputAttrs[i].Type
		}

		if cOutput.buf != nil && cOutput.size > 0 {
			outputs[i].Buf = C.GoBytes(cOutput.buf, C.int(cOutput.size))
		}
	}

	// this is the only release of these buffers, nothing kept above points
	// into them
	if err := r.releaseOutputs(cOutputs); err != nil {
		return nil, err
	}

	return outputs, nil
}

// releaseOutputs returns the output buffers allocated by rknn_outputs_get to
// the runtime
func (r *Runtime) releaseOutputs(cOutputs []C.rknn_output) error {

	ret := C.rknn_outputs_release(r.ctx, C.uint32_t(len(cOutputs)), &cOutputs[0])

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_outputs_release", int(ret), sdk.ErrRuntimeOutput)
	}

	return nil
}
