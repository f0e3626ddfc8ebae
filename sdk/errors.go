package sdk

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the runtime binding and the inference driver. Test
// for them with errors.Is.
var (
	// ErrIO is returned when a model or image file cannot be read
	ErrIO = errors.New("file access failed")
	// ErrRuntimeInit is returned when rknn_init rejects the model
	ErrRuntimeInit = errors.New("runtime initialization failed")
	// ErrQuery is returned when any rknn_query call fails
	ErrQuery = errors.New("runtime query failed")
	// ErrShapeApply is returned when a set of dynamic input shapes is
	// rejected, either by validation or by rknn_set_input_shapes
	ErrShapeApply = errors.New("input shapes rejected")
	// ErrRuntimeOutput is returned when outputs cannot be fetched or decoded
	ErrRuntimeOutput = errors.New("runtime output failed")
	// ErrConfiguration is returned for caller supplied settings that do not
	// match the loaded model
	ErrConfiguration = errors.New("invalid configuration")
	// ErrClosed is returned when a runtime is used after Close
	ErrClosed = errors.New("runtime is closed")
)

// CallError is a non-success status returned by a C API call
type CallError struct {
	// Call is the name of the C function, eg: rknn_query
	Call string
	// Code is the status returned
	Code ErrorCode
	// Kind is the error kind the failure is classed as, nil when the call
	// has no more specific kind
	Kind error
}

// NewCallError returns a CallError for the given C function and status code
func NewCallError(call string, code int, kind error) *CallError {
	return &CallError{
		Call: call,
		Code: ErrorCode(code),
		Kind: kind,
	}
}

func (e *CallError) Error() string {
	return fmt.Sprintf("C.%s failed with code %d, error: %s",
		e.Call, int(e.Code), e.Code.String())
}

// Unwrap returns the error kind so errors.Is matches against it
func (e *CallError) Unwrap() error {
	return e.Kind
}
