// Package sdk holds the Go side of the RKNN runtime data model: status codes,
// NPU core masks, tensor attributes, dynamic shape ranges, inputs and
// outputs, and the error kinds returned across the module. It has no cgo
// dependency.
package sdk
