package rknnapi

/*
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"bytes"
	"github.com/rknn-go/go-rknnapi/sdk"
	"unsafe"
)

// goName converts a fixed size, null terminated C char array to a Go string
func goName(name *C.char) string {

	nameBytes := C.GoBytes(unsafe.Pointer(name), C.int(sdk.MaxNameLength))

	if nullIndex := bytes.IndexByte(nameBytes, 0); nullIndex != -1 {
		nameBytes = nameBytes[:nullIndex]
	}

	return string(nameBytes)
}

// convertTensorAttr converts a C.rknn_tensor_attr to a sdk.TensorAttr
func convertTensorAttr(cAttr *C.rknn_tensor_attr) sdk.TensorAttr {

	return sdk.TensorAttr{
		Index:          uint32(cAttr.index),
		NDims:          uint32(cAttr.n_dims),
		Dims:           *(*[sdk.MaxDims]uint32)(unsafe.Pointer(&cAttr.dims)),
		Name:           goName(&cAttr.name[0]),
		NElems:         uint32(cAttr.n_elems),
		Size:           uint32(cAttr.size),
		Fmt:            sdk.TensorFormat(cAttr.fmt),
		Type:           sdk.TensorType(cAttr._type),
		QntType:        sdk.TensorQntType(cAttr.qnt_type),
		FL:             int8(cAttr.fl),
		ZP:             int32(cAttr.zp),
		Scale:          float32(cAttr.scale),
		WStride:        uint32(cAttr.w_stride),
		SizeWithStride: uint32(cAttr.size_with_stride),
		PassThrough:    cAttr.pass_through != 0,
		HStride:        uint32(cAttr.h_stride),
	}
}

// toCTensorAttr fills a C.rknn_tensor_attr from a sdk.TensorAttr, the
// reverse of convertTensorAttr
func toCTensorAttr(a sdk.TensorAttr, cAttr *C.rknn_tensor_attr) {

	cAttr.index = C.uint32_t(a.Index)
	cAttr.n_dims = C.uint32_t(a.NDims)

	for j := 0; j < sdk.MaxDims; j++ {
		cAttr.dims[j] = C.uint32_t(a.Dims[j])
	}

	// leave room for the null terminator
	for j := 0; j < len(a.Name) && j < sdk.MaxNameLength-1; j++ {
		cAttr.name[j] = C.char(a.Name[j])
	}

	cAttr.n_elems = C.uint32_t(a.NElems)
	cAttr.size = C.uint32_t(a.Size)
	cAttr.fmt = C.rknn_tensor_format(a.Fmt)
	cAttr._type = C.rknn_tensor_type(a.Type)
	cAttr.qnt_type = C.rknn_tensor_qnt_type(a.QntType)
	cAttr.fl = C.int8_t(a.FL)
	cAttr.zp = C.int32_t(a.ZP)
	cAttr.scale = C.float(a.Scale)
	cAttr.w_stride = C.uint32_t(a.WStride)
	cAttr.size_with_stride = C.uint32_t(a.SizeWithStride)
	cAttr.pass_through = C.uint8_t(0)

	if a.PassThrough {
		cAttr.pass_through = C.uint8_t(1)
	}

	cAttr.h_stride = C.uint32_t(a.HStride)
}

// queryTensors runs the given attribute query for tensor indices 0..n-1. The
// first failing index aborts the whole query.
func (r *Runtime) queryTensors(cmd C.rknn_query_cmd, cmdName string, n uint32) ([]sdk.TensorAttr, error) {

	if err := r.check(); err != nil {
		return nil, err
	}

	attrs := make([]sdk.TensorAttr, n)

	for i := uint32(0); i < n; i++ {
		var cAttr C.rknn_tensor_attr
		cAttr.index = C.uint32_t(i)

		ret := C.rknn_query(r.ctx, cmd, unsafe.Pointer(&cAttr), C.uint(unsafe.Sizeof(cAttr)))

		if ret != C.RKNN_SUCC {
			return nil, sdk.NewCallError("rknn_query "+cmdName, int(ret), sdk.ErrQuery)
		}

		attrs[i] = convertTensorAttr(&cAttr)
	}

	return attrs, nil
}

// QueryInputTensors gets the model Input Tensor attributes. After
// SetInputShapes the dims reflect the applied shape.
func (r *Runtime) QueryInputTensors() ([]sdk.TensorAttr, error) {
	return r.queryTensors(C.RKNN_QUERY_INPUT_ATTR, "RKNN_QUERY_INPUT_ATTR",
		r.ioNum.NumberInput)
}

// QueryOutputTensors gets the model Output Tensor attributes
func (r *Runtime) QueryOutputTensors() ([]sdk.TensorAttr, error) {

	attrs, err := r.queryTensors(C.RKNN_QUERY_OUTPUT_ATTR, "RKNN_QUERY_OUTPUT_ATTR",
		r.ioNum.NumberOutput)

	if err != nil {
		return nil, err
	}

	r.outputAttrs = attrs

	return attrs, nil
}
