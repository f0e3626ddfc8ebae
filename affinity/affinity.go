// Package affinity pins the process to a class of CPU cores on Rockchip
// SoCs, so the host side work of a benchmark does not migrate between the
// big and little clusters.
package affinity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rknn-go/go-rknnapi/sdk"
)

// CoreType specifies the CPU core type
type CoreType int

const (
	FastCores CoreType = 0
	SlowCores CoreType = 1
	AllCores  CoreType = 2
)

// ParseCoreType converts "fast", "slow" or "all" to a CoreType
func ParseCoreType(s string) (CoreType, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return FastCores, nil
	case "slow":
		return SlowCores, nil
	case "all":
		return AllCores, nil
	}

	return AllCores, fmt.Errorf("%w: unknown cpu core type %q, expected fast|slow|all",
		sdk.ErrConfiguration, s)
}

func (c CoreType) String() string {
	switch c {
	case FastCores:
		return "fast"
	case SlowCores:
		return "slow"
	default:
		return "all"
	}
}

// cores lists the CPU numbers of each core type. Single cluster SoCs map
// every type onto the same four cores.
type cores struct {
	fast, slow []int
}

var (
	quadA55 = cores{fast: []int{0, 1, 2, 3}, slow: []int{0, 1, 2, 3}}

	platformCores = map[string]cores{
		// cortex A53 cores 0-3
		"rk3562": quadA55,
		// cortex A55 1.6Ghz cores 0-3
		"rk3566": quadA55,
		// cortex A55 2Ghz cores 0-3
		"rk3568": quadA55,
		// cortex A72 cores 4-7 and A53 cores 0-3
		"rk3576": {fast: []int{4, 5, 6, 7}, slow: []int{0, 1, 2, 3}},
		// cortex A76 cores 4-5 and A55 cores 0-3
		"rk3582": {fast: []int{4, 5}, slow: []int{0, 1, 2, 3}},
		// cortex A76 cores 4-7 and A55 cores 0-3
		"rk3588": {fast: []int{4, 5, 6, 7}, slow: []int{0, 1, 2, 3}},
	}
)

// Platforms returns the platform names PlatformCores knows, sorted
func Platforms() []string {

	names := make([]string, 0, len(platformCores))

	for name := range platformCores {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// PlatformCores returns the CPU numbers of the given core type on platform,
// eg: rk3588 fast cores are []int{4,5,6,7}
func PlatformCores(platform string, ct CoreType) ([]int, error) {

	c, ok := platformCores[strings.ToLower(strings.TrimSpace(platform))]

	if !ok {
		return nil, fmt.Errorf("%w: unknown platform %q, expected one of %s",
			sdk.ErrConfiguration, platform, strings.Join(Platforms(), "|"))
	}

	switch ct {
	case FastCores:
		return slices.Clone(c.fast), nil
	case SlowCores:
		return slices.Clone(c.slow), nil
	}

	all := append(slices.Clone(c.slow), c.fast...)
	slices.Sort(all)

	return slices.Compact(all), nil
}

// SetByPlatform pins the process to the cores of the given type on platform
func SetByPlatform(platform string, ct CoreType) error {

	cpus, err := PlatformCores(platform, ct)

	if err != nil {
		return err
	}

	return Set(cpus)
}
