package envconfig

import (
	"log/slog"
	"testing"

	"github.com/rknn-go/go-rknnapi/assets"
	"github.com/rknn-go/go-rknnapi/sdk"
	"github.com/stretchr/testify/assert"
)

func TestVar(t *testing.T) {

	t.Setenv("RKNN_PLATFORM", ` "rk3588" `)
	assert.Equal(t, "rk3588", Platform())

	t.Setenv("RKNN_PLATFORM", "'rk3576'")
	assert.Equal(t, "rk3576", Platform())
}

func TestLogLevel(t *testing.T) {

	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"2":     slog.Level(-8),
		"bogus": slog.LevelInfo,
	}

	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("RKNN_DEBUG", value)
			assert.Equal(t, want, LogLevel())
		})
	}
}

func TestCoreMask(t *testing.T) {

	t.Setenv("RKNN_CORE_MASK", "")
	assert.Equal(t, sdk.NPUCore0, CoreMask())

	t.Setenv("RKNN_CORE_MASK", "npu0_1_2")
	assert.Equal(t, sdk.NPUCore012, CoreMask())

	t.Setenv("RKNN_CORE_MASK", "npu9")
	assert.Equal(t, DefaultCoreMask, CoreMask())
}

func TestLoopCount(t *testing.T) {

	cases := map[string]uint{
		"":   1,
		"10": 10,
		"-3": 1,
		"x":  1,
	}

	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("RKNN_LOOP_COUNT", value)
			assert.Equal(t, want, LoopCount())
		})
	}
}

func TestDefaults(t *testing.T) {

	t.Setenv("RKNN_DATA_DIR", "")
	t.Setenv("RKNN_ASSETS_URL", "")

	assert.Equal(t, ".", DataDir())
	assert.Equal(t, assets.DefaultBaseURL, AssetsURL())

	t.Setenv("RKNN_DATA_DIR", "/data/rknn")
	assert.Equal(t, "/data/rknn", DataDir())
}

func TestAsMap(t *testing.T) {

	t.Setenv("RKNN_LOOP_COUNT", "7")

	vars := AsMap()
	assert.Len(t, vars, 6)

	for name, v := range vars {
		assert.Equal(t, name, v.Name)
		assert.NotEmpty(t, v.Description)
	}

	assert.Equal(t, "7", Values()["RKNN_LOOP_COUNT"])
}
