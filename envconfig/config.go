// Package envconfig reads the RKNN_* environment variables that supply
// defaults to the command line tools. Command flags take precedence.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rknn-go/go-rknnapi/assets"
	"github.com/rknn-go/go-rknnapi/sdk"
)

// Var returns an environment variable stripped of leading and trailing
// quotes or spaces
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// String returns a getter for a string variable
func String(key string) func() string {
	return func() string {
		return Var(key)
	}
}

// StringWithDefault returns a getter for a string variable that falls back to
// defaultValue when unset
func StringWithDefault(key, defaultValue string) func() string {
	return func() string {
		if s := Var(key); s != "" {
			return s
		}

		return defaultValue
	}
}

// Uint returns a getter for an unsigned integer variable, an invalid value
// logs a warning and falls back to defaultValue
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}

		return defaultValue
	}
}

// LogLevel returns the log level for the application. RKNN_DEBUG=1 or true
// selects debug, larger integers go further below debug.
func LogLevel() slog.Level {

	level := slog.LevelInfo

	if s := Var("RKNN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// DefaultCoreMask is the NPU core used when neither RKNN_CORE_MASK nor a
// flag selects one
const DefaultCoreMask = sdk.NPUCore0

// CoreMask returns the NPU core mask from RKNN_CORE_MASK, eg: npu0-1
func CoreMask() sdk.CoreMask {

	if s := Var("RKNN_CORE_MASK"); s != "" {
		mask, err := sdk.ParseCoreMask(s)

		if err == nil {
			return mask
		}

		slog.Warn("invalid environment variable, using default", "key", "RKNN_CORE_MASK", "value", s,
			"default", DefaultCoreMask)
	}

	return DefaultCoreMask
}

var (
	// LoopCount is the number of timed runs per shape
	LoopCount = Uint("RKNN_LOOP_COUNT", 1)
	// Platform is the Rockchip SoC, eg: rk3588, used for CPU affinity and
	// selecting models to fetch
	Platform = String("RKNN_PLATFORM")
	// DataDir is where fetched models and images are stored
	DataDir = StringWithDefault("RKNN_DATA_DIR", ".")
	// AssetsURL is the base URL models and images are fetched from
	AssetsURL = StringWithDefault("RKNN_ASSETS_URL", assets.DefaultBaseURL)
)

// EnvVar describes an environment variable and its current value
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value and description
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"RKNN_DEBUG":      {"RKNN_DEBUG", LogLevel(), "Show additional debug information (e.g. RKNN_DEBUG=1)"},
		"RKNN_CORE_MASK":  {"RKNN_CORE_MASK", CoreMask(), "NPU cores to run on (default \"npu0\")"},
		"RKNN_LOOP_COUNT": {"RKNN_LOOP_COUNT", LoopCount(), "Number of timed inference runs per input shape (default 1)"},
		"RKNN_PLATFORM":   {"RKNN_PLATFORM", Platform(), "Rockchip platform, eg: rk3588"},
		"RKNN_DATA_DIR":   {"RKNN_DATA_DIR", DataDir(), "Directory fetched models and images are stored in (default \".\")"},
		"RKNN_ASSETS_URL": {"RKNN_ASSETS_URL", AssetsURL(), "Base URL models and images are fetched from"},
	}
}

// Values returns the current value of every variable as a string
func Values() map[string]string {

	vals := make(map[string]string)

	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}

	return vals
}
