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

// QueryInputRanges wraps RKNN_QUERY_INPUT_DYNAMIC_RANGE and returns the
// shapes each input of a dynamic shape model accepts, one range per input.
func (r *Runtime) QueryInputRanges() ([]sdk.InputRange, error) {

	if err := r.check(); err != nil {
		return nil, err
	}

	ranges := make([]sdk.InputRange, r.ioNum.NumberInput)

	for i := uint32(0); i < r.ioNum.NumberInput; i++ {
		// rknn_input_range is large (dyn_range alone is 32KB) so keep it off
		// the Go stack
		cRange := (*C.rknn_input_range)(C.calloc(1, C.sizeof_rknn_input_range))

		if cRange == nil {
			return nil, fmt.Errorf("%w: allocating rknn_input_range", sdk.ErrQuery)
		}

		cRange.index = C.uint32_t(i)

		ret := C.rknn_query(r.ctx, C.RKNN_QUERY_INPUT_DYNAMIC_RANGE,
			unsafe.Pointer(cRange), C.uint(C.sizeof_rknn_input_range))

		if ret != C.RKNN_SUCC {
			C.free(unsafe.Pointer(cRange))
			return nil, sdk.NewCallError("rknn_query RKNN_QUERY_INPUT_DYNAMIC_RANGE",
				int(ret), sdk.ErrQuery)
		}

		ranges[i] = convertInputRange(cRange)
		C.free(unsafe.Pointer(cRange))
	}

	return ranges, nil
}

// convertInputRange converts a C.rknn_input_range to a sdk.InputRange,
// keeping only the shape_number valid entries
func convertInputRange(cRange *C.rknn_input_range) sdk.InputRange {

	shapeNumber := uint32(cRange.shape_number)

	if shapeNumber > sdk.MaxDynamicShapes {
		shapeNumber = sdk.MaxDynamicShapes
	}

	rng := sdk.InputRange{
		Index:       uint32(cRange.index),
		Name:        goName(&cRange.name[0]),
		Fmt:         sdk.TensorFormat(cRange.fmt),
		NDims:       uint32(cRange.n_dims),
		ShapeNumber: shapeNumber,
		Shapes:      make([][sdk.MaxDims]uint32, shapeNumber),
	}

	for s := uint32(0); s < shapeNumber; s++ {
		for j := 0; j < sdk.MaxDims; j++ {
			rng.Shapes[s][j] = uint32(cRange.dyn_range[s][j])
		}
	}

	return rng
}

// SetInputShapes wraps C.rknn_set_input_shapes. One attribute must be given
// per model input, with the dims set to the wanted shape.
func (r *Runtime) SetInputShapes(attrs []sdk.TensorAttr) error {

	if err := r.check(); err != nil {
		return err
	}

	if len(attrs) != int(r.ioNum.NumberInput) || len(attrs) == 0 {
		return fmt.Errorf("%w: %d input shapes given, model has %d inputs",
			sdk.ErrShapeApply, len(attrs), r.ioNum.NumberInput)
	}

	cAttrs := make([]C.rknn_tensor_attr, len(attrs))

	for i, attr := range attrs {
		toCTensorAttr(attr, &cAttrs[i])
	}

	ret := C.rknn_set_input_shapes(r.ctx, C.uint32_t(len(cAttrs)), &cAttrs[0])

	if ret != C.RKNN_SUCC {
		return sdk.NewCallError("rknn_set_input_shapes", int(ret), sdk.ErrShapeApply)
	}

	return nil
}
