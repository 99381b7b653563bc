package inspector

import (
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// Usage samples CPU and memory utilization of pid via gopsutil. Each
// metric degrades to -1 independently when the platform cannot provide
// it; inspection never fails because of metrics.
func Usage(pid int) (cpu, mem float64) {
	cpu, mem = -1, -1
	p, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return cpu, mem
	}
	if v, err := p.CPUPercent(); err == nil {
		cpu = v
	}
	if v, err := p.MemoryPercent(); err == nil {
		mem = float64(v)
	}
	return cpu, mem
}
