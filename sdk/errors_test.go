package sdk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {

	for code := Success; code >= ErrPlatformMismatch; code-- {
		assert.True(t, code.Known(), "code %d", code)
		assert.NotContains(t, code.String(), "unrecognized", "code %d", code)
	}

	assert.Equal(t, "parameter is invalid", ErrParamInvalid.String())

	for _, code := range []ErrorCode{1, -14, -100} {
		assert.False(t, code.Known())
		assert.Equal(t, fmt.Sprintf("unrecognized error code %d", int(code)), code.String())
	}
}

func TestCallError(t *testing.T) {

	err := fmt.Errorf("error querying input tensors: %w",
		NewCallError("rknn_query", -7, ErrQuery))

	assert.True(t, errors.Is(err, ErrQuery))
	assert.False(t, errors.Is(err, ErrShapeApply))

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "rknn_query", callErr.Call)
	assert.Equal(t, ErrCtxInvalid, callErr.Code)
	assert.Equal(t, "C.rknn_query failed with code -7, error: context is invalid", callErr.Error())
}

func TestCallErrorWithoutKind(t *testing.T) {

	err := NewCallError("rknn_run", -42, nil)

	assert.Nil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "unrecognized error code -42")
}

func TestParseCoreMask(t *testing.T) {

	tests := []struct {
		in   string
		want CoreMask
	}{
		{"auto", NPUCoreAuto},
		{"npu0", NPUCore0},
		{"NPU1", NPUCore1},
		{"npu2", NPUCore2},
		{"npu0-1", NPUCore01},
		{"npu0_1_2", NPUCore012},
		{" all ", NPUCoreAll},
		{"skip", NPUSkipSetCore},
	}

	for _, tc := range tests {
		got, err := ParseCoreMask(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseCoreMask("npu3")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "npu0-1-2")
}

func TestCoreMaskFlagValue(t *testing.T) {

	var mask CoreMask

	require.NoError(t, mask.Set("npu0-1"))
	assert.Equal(t, NPUCore01, mask)
	assert.Equal(t, "npu0-1", mask.String())
	assert.Equal(t, "coremask", mask.Type())

	assert.Error(t, mask.Set("gpu"))
	assert.Equal(t, NPUCore01, mask, "failed Set must leave the value unchanged")

	assert.Equal(t, "unrecognized(0x8)", CoreMask(8).String())
	assert.Len(t, CoreMaskNames(), 9)
}
