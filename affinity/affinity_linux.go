//go:build linux

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Set pins the calling thread, and threads created from it afterwards, to the
// given CPU numbers. The calling goroutine must hold the thread with
// runtime.LockOSThread for the pinning to follow the work it does.
func Set(cpus []int) error {

	var set unix.CPUSet
	set.Zero()

	for _, cpu := range cpus {
		set.Set(cpu)
	}

	if set.Count() == 0 {
		return fmt.Errorf("failed to set CPU affinity: no cores given")
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("failed to set CPU affinity to %v: %w", cpus, err)
	}

	return nil
}

// Get returns the CPU numbers the calling thread may run on
func Get() ([]int, error) {

	var set unix.CPUSet

	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("failed to get CPU affinity: %w", err)
	}

	var cpus []int

	for cpu := 0; cpu < len(set)*64; cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}

	return cpus, nil
}
