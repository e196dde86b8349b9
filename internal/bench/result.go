package bench

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// Result is one micro-benchmark's statistics, matching spec §3's
// BenchmarkResult field-for-field.
type Result struct {
	Name                string  `json:"name"`
	Iterations          uint64  `json:"iterations"`
	Warmup              uint64  `json:"warmup"`
	TotalDurationNS     int64   `json:"total_duration_ns"`
	MeanNS              float64 `json:"mean_ns"`
	MedianNS            float64 `json:"median_ns"`
	P95NS               float64 `json:"p95_ns"`
	P99NS               float64 `json:"p99_ns"`
	ThroughputOpsPerSec float64 `json:"throughput_ops_per_sec"`
	MemoryDeltaBytes    int64   `json:"memory_delta_bytes"`
	SuccessRatePct      float64 `json:"success_rate_pct"`
	ErrorCount          uint64  `json:"error_count"`
}

// SystemInfo is the snapshot attached to a Suite, per spec §4.10.
type SystemInfo struct {
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	CPUCount    int    `json:"cpu_count"`
	TotalMemory uint64 `json:"total_memory_bytes"`
}

// CollectSystemInfo samples the current host.
func CollectSystemInfo() SystemInfo {
	info := SystemInfo{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUCount: runtime.NumCPU(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}

// Suite is an ordered sequence of Results plus a SystemInfo snapshot
// (spec §4.10: "a suite is an ordered sequence of results plus a
// system-info snapshot").
type Suite struct {
	Name      string     `json:"name"`
	Timestamp time.Time  `json:"timestamp"`
	System    SystemInfo `json:"system"`
	Results   []Result   `json:"results"`
}
