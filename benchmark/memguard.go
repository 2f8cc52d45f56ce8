package benchmark

import (
	"github.com/shirou/gopsutil/v3/mem"
)

// FreeMemory returns the host's currently available memory in bytes.
// It is the default free-memory probe of a Runner; tests substitute a
// deterministic function via Options.FreeMemory.
func FreeMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}
