package rknnapi

/*
#include "rknn_api.h"
*/
import "C"
import (
	"github.com/rknn-go/go-rknnapi/sdk"
	"unsafe"
)

// The sdk package mirrors rknn_api.h without cgo. Each assertion below fails
// to compile when a mirrored value differs from the header, uint() of a
// negative constant being an overflow error.

// array capacities, relied on by the unsafe dims cast and the shape list bound
const (
	_ = uint(C.RKNN_MAX_DIMS-sdk.MaxDims) + uint(sdk.MaxDims-C.RKNN_MAX_DIMS)
	_ = uint(C.RKNN_MAX_NAME_LEN-sdk.MaxNameLength) + uint(sdk.MaxNameLength-C.RKNN_MAX_NAME_LEN)
	_ = uint(C.RKNN_MAX_DYNAMIC_SHAPE_NUM-sdk.MaxDynamicShapes) +
		uint(sdk.MaxDynamicShapes-C.RKNN_MAX_DYNAMIC_SHAPE_NUM)
)

// enum values are compared as ints so the typed sdk constants can be used
const (
	_ = uint(C.RKNN_TENSOR_NCHW-int(sdk.TensorNCHW)) + uint(int(sdk.TensorNCHW)-C.RKNN_TENSOR_NCHW)
	_ = uint(C.RKNN_TENSOR_NHWC-int(sdk.TensorNHWC)) + uint(int(sdk.TensorNHWC)-C.RKNN_TENSOR_NHWC)
	_ = uint(C.RKNN_TENSOR_NC1HWC2-int(sdk.TensorNC1HWC2)) + uint(int(sdk.TensorNC1HWC2)-C.RKNN_TENSOR_NC1HWC2)
	_ = uint(C.RKNN_TENSOR_UNDEFINED-int(sdk.TensorUndefined)) + uint(int(sdk.TensorUndefined)-C.RKNN_TENSOR_UNDEFINED)

	_ = uint(C.RKNN_TENSOR_FLOAT32-int(sdk.TensorFloat32)) + uint(int(sdk.TensorFloat32)-C.RKNN_TENSOR_FLOAT32)
	_ = uint(C.RKNN_TENSOR_FLOAT16-int(sdk.TensorFloat16)) + uint(int(sdk.TensorFloat16)-C.RKNN_TENSOR_FLOAT16)
	_ = uint(C.RKNN_TENSOR_INT8-int(sdk.TensorInt8)) + uint(int(sdk.TensorInt8)-C.RKNN_TENSOR_INT8)
	_ = uint(C.RKNN_TENSOR_UINT8-int(sdk.TensorUint8)) + uint(int(sdk.TensorUint8)-C.RKNN_TENSOR_UINT8)
	_ = uint(C.RKNN_TENSOR_INT16-int(sdk.TensorInt16)) + uint(int(sdk.TensorInt16)-C.RKNN_TENSOR_INT16)
	_ = uint(C.RKNN_TENSOR_UINT16-int(sdk.TensorUint16)) + uint(int(sdk.TensorUint16)-C.RKNN_TENSOR_UINT16)
	_ = uint(C.RKNN_TENSOR_INT32-int(sdk.TensorInt32)) + uint(int(sdk.TensorInt32)-C.RKNN_TENSOR_INT32)
	_ = uint(C.RKNN_TENSOR_UINT32-int(sdk.TensorUint32)) + uint(int(sdk.TensorUint32)-C.RKNN_TENSOR_UINT32)
	_ = uint(C.RKNN_TENSOR_INT64-int(sdk.TensorInt64)) + uint(int(sdk.TensorInt64)-C.RKNN_TENSOR_INT64)
	_ = uint(C.RKNN_TENSOR_BOOL-int(sdk.TensorBool)) + uint(int(sdk.TensorBool)-C.RKNN_TENSOR_BOOL)
	_ = uint(C.RKNN_TENSOR_INT4-int(sdk.TensorInt4)) + uint(int(sdk.TensorInt4)-C.RKNN_TENSOR_INT4)

	_ = uint(C.RKNN_TENSOR_QNT_NONE-int(sdk.TensorQntNone)) + uint(int(sdk.TensorQntNone)-C.RKNN_TENSOR_QNT_NONE)
	_ = uint(C.RKNN_TENSOR_QNT_DFP-int(sdk.TensorQntDFP)) + uint(int(sdk.TensorQntDFP)-C.RKNN_TENSOR_QNT_DFP)
	_ = uint(C.RKNN_TENSOR_QNT_AFFINE_ASYMMETRIC-int(sdk.TensorQntAffine)) +
		uint(int(sdk.TensorQntAffine)-C.RKNN_TENSOR_QNT_AFFINE_ASYMMETRIC)
)

// core masks
const (
	_ = uint(C.RKNN_NPU_CORE_AUTO-int(sdk.NPUCoreAuto)) + uint(int(sdk.NPUCoreAuto)-C.RKNN_NPU_CORE_AUTO)
	_ = uint(C.RKNN_NPU_CORE_0-int(sdk.NPUCore0)) + uint(int(sdk.NPUCore0)-C.RKNN_NPU_CORE_0)
	_ = uint(C.RKNN_NPU_CORE_1-int(sdk.NPUCore1)) + uint(int(sdk.NPUCore1)-C.RKNN_NPU_CORE_1)
	_ = uint(C.RKNN_NPU_CORE_2-int(sdk.NPUCore2)) + uint(int(sdk.NPUCore2)-C.RKNN_NPU_CORE_2)
	_ = uint(C.RKNN_NPU_CORE_0_1-int(sdk.NPUCore01)) + uint(int(sdk.NPUCore01)-C.RKNN_NPU_CORE_0_1)
	_ = uint(C.RKNN_NPU_CORE_0_1_2-int(sdk.NPUCore012)) + uint(int(sdk.NPUCore012)-C.RKNN_NPU_CORE_0_1_2)
	_ = uint(C.RKNN_NPU_CORE_ALL-int(sdk.NPUCoreAll)) + uint(int(sdk.NPUCoreAll)-C.RKNN_NPU_CORE_ALL)
	_ = uint(C.RKNN_NPU_CORE_UNDEFINED-int(sdk.NPUCoreUndefined)) +
		uint(int(sdk.NPUCoreUndefined)-C.RKNN_NPU_CORE_UNDEFINED)
)

// status codes
const (
	_ = uint(C.RKNN_SUCC-int(sdk.Success)) + uint(int(sdk.Success)-C.RKNN_SUCC)
	_ = uint(C.RKNN_ERR_FAIL-int(sdk.ErrFail)) + uint(int(sdk.ErrFail)-C.RKNN_ERR_FAIL)
	_ = uint(C.RKNN_ERR_TIMEOUT-int(sdk.ErrTimeout)) + uint(int(sdk.ErrTimeout)-C.RKNN_ERR_TIMEOUT)
	_ = uint(C.RKNN_ERR_DEVICE_UNAVAILABLE-int(sdk.ErrDeviceUnavailable)) +
		uint(int(sdk.ErrDeviceUnavailable)-C.RKNN_ERR_DEVICE_UNAVAILABLE)
	_ = uint(C.RKNN_ERR_MALLOC_FAIL-int(sdk.ErrMallocFail)) + uint(int(sdk.ErrMallocFail)-C.RKNN_ERR_MALLOC_FAIL)
	_ = uint(C.RKNN_ERR_PARAM_INVALID-int(sdk.ErrParamInvalid)) + uint(int(sdk.ErrParamInvalid)-C.RKNN_ERR_PARAM_INVALID)
	_ = uint(C.RKNN_ERR_MODEL_INVALID-int(sdk.ErrModelInvalid)) + uint(int(sdk.ErrModelInvalid)-C.RKNN_ERR_MODEL_INVALID)
	_ = uint(C.RKNN_ERR_CTX_INVALID-int(sdk.ErrCtxInvalid)) + uint(int(sdk.ErrCtxInvalid)-C.RKNN_ERR_CTX_INVALID)
	_ = uint(C.RKNN_ERR_INPUT_INVALID-int(sdk.ErrInputInvalid)) + uint(int(sdk.ErrInputInvalid)-C.RKNN_ERR_INPUT_INVALID)
	_ = uint(C.RKNN_ERR_OUTPUT_INVALID-int(sdk.ErrOutputInvalid)) + uint(int(sdk.ErrOutputInvalid)-C.RKNN_ERR_OUTPUT_INVALID)
	_ = uint(C.RKNN_ERR_DEVICE_UNMATCH-int(sdk.ErrDeviceMismatch)) +
		uint(int(sdk.ErrDeviceMismatch)-C.RKNN_ERR_DEVICE_UNMATCH)
	_ = uint(C.RKNN_ERR_INCOMPATILE_PRE_COMPILE_MODEL-int(sdk.ErrPreCompiledModel)) +
		uint(int(sdk.ErrPreCompiledModel)-C.RKNN_ERR_INCOMPATILE_PRE_COMPILE_MODEL)
	_ = uint(C.RKNN_ERR_INCOMPATILE_OPTIMIZATION_LEVEL_VERSION-int(sdk.ErrOptimizationVersion)) +
		uint(int(sdk.ErrOptimizationVersion)-C.RKNN_ERR_INCOMPATILE_OPTIMIZATION_LEVEL_VERSION)
	_ = uint(C.RKNN_ERR_TARGET_PLATFORM_UNMATCH-int(sdk.ErrPlatformMismatch)) +
		uint(int(sdk.ErrPlatformMismatch)-C.RKNN_ERR_TARGET_PLATFORM_UNMATCH)
)

// the dims cast in convertTensorAttr reads the C array as [sdk.MaxDims]uint32
var _ = [1]struct{}{}[unsafe.Sizeof(C.rknn_tensor_attr{}.dims)-4*sdk.MaxDims]
