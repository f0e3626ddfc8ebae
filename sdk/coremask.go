package sdk

import (
	"fmt"
	"strings"
)

// CoreMask mirrors rknn_core_mask and selects which NPU cores a model runs on.
// The rk3588 has three cores, auto will pick an idle core to run the model
// on, whilst the others specify the specific core or combined number of cores
// to run. For multi-core modes the following ops have better acceleration:
// Conv, DepthwiseConvolution, Add, Concat, Relu, Clip, Relu6, ThresholdedRelu,
// Prelu, and LeakyRelu. Other type of ops will fallback to Core0 to continue
// running
type CoreMask uint32

const (
	NPUCoreAuto      CoreMask = 0
	NPUCore0         CoreMask = 1
	NPUCore1         CoreMask = 2
	NPUCore2         CoreMask = 4
	NPUCore01        CoreMask = NPUCore0 | NPUCore1
	NPUCore012       CoreMask = NPUCore01 | NPUCore2
	NPUCoreAll       CoreMask = 0xffff
	NPUCoreUndefined CoreMask = 0x10000
	// NPUSkipSetCore is not passed to the runtime, it tells callers not to
	// call rknn_set_core_mask at all. Single core SoCs such as the RK3566
	// reject the call.
	NPUSkipSetCore CoreMask = 9999
)

var coreMaskNames = []struct {
	name string
	mask CoreMask
}{
	{"auto", NPUCoreAuto},
	{"npu0", NPUCore0},
	{"npu1", NPUCore1},
	{"npu2", NPUCore2},
	{"npu0-1", NPUCore01},
	{"npu0-1-2", NPUCore012},
	{"all", NPUCoreAll},
	{"undefined", NPUCoreUndefined},
	{"skip", NPUSkipSetCore},
}

// CoreMaskNames lists the names accepted by ParseCoreMask
func CoreMaskNames() []string {
	names := make([]string, len(coreMaskNames))

	for i, n := range coreMaskNames {
		names[i] = n.name
	}

	return names
}

// ParseCoreMask converts a name such as "npu0-1" into a CoreMask. Underscores
// are accepted in place of dashes.
func ParseCoreMask(s string) (CoreMask, error) {

	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")

	for _, n := range coreMaskNames {
		if n.name == key {
			return n.mask, nil
		}
	}

	return NPUCoreUndefined, fmt.Errorf("%w: unknown core mask %q, expected one of %s",
		ErrConfiguration, s, strings.Join(CoreMaskNames(), "|"))
}

// String returns the name of the core mask
func (m CoreMask) String() string {

	for _, n := range coreMaskNames {
		if n.mask == m {
			return n.name
		}
	}

	return fmt.Sprintf("unrecognized(%#x)", uint32(m))
}

// Set implements pflag.Value so a CoreMask can be bound to a command flag
func (m *CoreMask) Set(s string) error {

	mask, err := ParseCoreMask(s)

	if err != nil {
		return err
	}

	*m = mask
	return nil
}

// Type implements pflag.Value
func (m *CoreMask) Type() string {
	return "coremask"
}
