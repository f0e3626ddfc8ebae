package rknnapi

/*
#include "rknn_api.h"
*/
import "C"
import (
	"github.com/rknn-go/go-rknnapi/sdk"
	"unsafe"
)

// queryIONumber queries the number of Input and Output tensors of the model
func (r *Runtime) queryIONumber() (sdk.IONumber, error) {

	var cIONum C.rknn_input_output_num

	ret := C.rknn_query(r.ctx, C.RKNN_QUERY_IN_OUT_NUM, unsafe.Pointer(&cIONum),
		C.uint(C.sizeof_rknn_input_output_num))

	if ret != C.RKNN_SUCC {
		return sdk.IONumber{}, sdk.NewCallError("rknn_query RKNN_QUERY_IN_OUT_NUM",
			int(ret), sdk.ErrQuery)
	}

	return sdk.IONumber{
		NumberInput:  uint32(cIONum.n_input),
		NumberOutput: uint32(cIONum.n_output),
	}, nil
}
