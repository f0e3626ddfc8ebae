//go:build !linux

package affinity

import (
	"errors"
	"fmt"
)

// Set is only supported on linux
func Set(cpus []int) error {
	return fmt.Errorf("failed to set CPU affinity: %w", errors.ErrUnsupported)
}

// Get is only supported on linux
func Get() ([]int, error) {
	return nil, fmt.Errorf("failed to get CPU affinity: %w", errors.ErrUnsupported)
}
