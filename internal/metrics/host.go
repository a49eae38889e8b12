package metrics

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
)

// HostInfo describes the CPU a run executes on.
type HostInfo struct {
	Brand   string
	Cores   int
	Threads int
	AVX2    bool
}

// Host reads the CPU description detected at start-up.
func Host() HostInfo {
	return HostInfo{
		Brand:   cpuid.CPU.BrandName,
		Cores:   cpuid.CPU.PhysicalCores,
		Threads: cpuid.CPU.LogicalCores,
		AVX2:    cpuid.CPU.Supports(cpuid.AVX2),
	}
}

// String formats the host as key=value log fields.
func (h HostInfo) String() string {
	return fmt.Sprintf("cpu=%q cores=%d threads=%d avx2=%t", h.Brand, h.Cores, h.Threads, h.AVX2)
}
