/*
go-rknnapi provides Go language bindings for the RKNN Toolkit2 C runtime API
used to run AI inference models on the Rockchip NPU, with a driver for models
compiled with dynamic input shapes.

The root package wraps a single rknn_context in a Runtime. Data types shared
with the rest of the module live in the sdk package, so the driver, pre and
post processing code can be used and tested without the runtime library.

Building this package requires cgo, rknn_api.h on the include path and
librknnrt.so on the linker path. It has been used on the RK3588 and other
RK35xx series SoCs supported by RKNN Toolkit2.

See the cmd/rknn-examples command for example usage.
*/
package rknnapi
