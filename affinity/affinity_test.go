package affinity

import (
	"errors"
	"runtime"
	"testing"

	"github.com/rknn-go/go-rknnapi/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformCores(t *testing.T) {

	tests := []struct {
		platform string
		ct       CoreType
		want     []int
	}{
		{"rk3588", FastCores, []int{4, 5, 6, 7}},
		{"rk3588", SlowCores, []int{0, 1, 2, 3}},
		{"rk3588", AllCores, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"RK3582", FastCores, []int{4, 5}},
		{"rk3582", AllCores, []int{0, 1, 2, 3, 4, 5}},
		{" rk3576 ", AllCores, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"rk3566", FastCores, []int{0, 1, 2, 3}},
		{"rk3566", AllCores, []int{0, 1, 2, 3}},
	}

	for _, tc := range tests {
		got, err := PlatformCores(tc.platform, tc.ct)
		require.NoError(t, err, tc.platform)
		assert.Equal(t, tc.want, got, "%s %s", tc.platform, tc.ct)
	}
}

func TestPlatformCoresReturnsCopy(t *testing.T) {

	got, err := PlatformCores("rk3588", FastCores)
	require.NoError(t, err)
	got[0] = 99

	again, err := PlatformCores("rk3588", FastCores)
	require.NoError(t, err)
	assert.Equal(t, 4, again[0])
}

func TestUnknownPlatform(t *testing.T) {

	_, err := PlatformCores("rk1808", FastCores)
	assert.True(t, errors.Is(err, sdk.ErrConfiguration))
	assert.Contains(t, err.Error(), "rk3588")

	assert.True(t, errors.Is(SetByPlatform("rk1808", AllCores), sdk.ErrConfiguration))
}

func TestParseCoreType(t *testing.T) {

	for _, ct := range []CoreType{FastCores, SlowCores, AllCores} {
		got, err := ParseCoreType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}

	_, err := ParseCoreType("medium")
	assert.True(t, errors.Is(err, sdk.ErrConfiguration))
}

func TestGetAffinity(t *testing.T) {

	if runtime.GOOS != "linux" {
		t.Skip("CPU affinity is only supported on linux")
	}

	cpus, err := Get()
	require.NoError(t, err)
	assert.NotEmpty(t, cpus)

	// pinning to the current set is always permitted
	require.NoError(t, Set(cpus))

	assert.Error(t, Set(nil))
}
