package sdk

import (
	"sync"

	"github.com/x448/float16"
)

// halfTable maps every half precision bit pattern to its float32 value. It is
// built the first time an FP16 output is decoded.
var halfTable = sync.OnceValue(func() *[1 << 16]float32 {

	var table [1 << 16]float32

	for i := range table {
		table[i] = float16.Frombits(uint16(i)).Float32()
	}

	return &table
})

// halfToFloat32 converts the bits of an FP16 value to float32
func halfToFloat32(bits uint16) float32 {
	return halfTable()[bits]
}
