package sdk

import "fmt"

// ErrorCode is a status code returned by the RKNN C API. Zero is success and
// every other value is a failure.
type ErrorCode int

// error code values returned by the C API, matching RKNN_SUCC and the
// RKNN_ERR_* defines in rknn_api.h
const (
	Success                ErrorCode = 0
	ErrFail                ErrorCode = -1
	ErrTimeout             ErrorCode = -2
	ErrDeviceUnavailable   ErrorCode = -3
	ErrMallocFail          ErrorCode = -4
	ErrParamInvalid        ErrorCode = -5
	ErrModelInvalid        ErrorCode = -6
	ErrCtxInvalid          ErrorCode = -7
	ErrInputInvalid        ErrorCode = -8
	ErrOutputInvalid       ErrorCode = -9
	ErrDeviceMismatch      ErrorCode = -10
	ErrPreCompiledModel    ErrorCode = -11
	ErrOptimizationVersion ErrorCode = -12
	ErrPlatformMismatch    ErrorCode = -13
)

// Known reports whether the code is one of the documented RKNN codes
func (e ErrorCode) Known() bool {
	return e <= Success && e >= ErrPlatformMismatch
}

// String returns a readable description of the error code
func (e ErrorCode) String() string {
	switch e {
	case Success:
		return "execution successful"
	case ErrFail:
		return "execution failed"
	case ErrTimeout:
		return "execution timed out"
	case ErrDeviceUnavailable:
		return "device is unavailable"
	case ErrMallocFail:
		return "C memory allocation failed"
	case ErrParamInvalid:
		return "parameter is invalid"
	case ErrModelInvalid:
		return "model file is invalid"
	case ErrCtxInvalid:
		return "context is invalid"
	case ErrInputInvalid:
		return "input is invalid"
	case ErrOutputInvalid:
		return "output is invalid"
	case ErrDeviceMismatch:
		return "device mismatch, please update rknn sdk and npu driver/firmware"
	case ErrPreCompiledModel:
		return "the RKNN model uses pre_compile mode, but is not compatible with current driver"
	case ErrOptimizationVersion:
		return "the RKNN model optimization level is not compatible with current driver"
	case ErrPlatformMismatch:
		return "the RKNN model target platform is not compatible with the current platform"
	default:
		return fmt.Sprintf("unrecognized error code %d", int(e))
	}
}
