// Package sysprobe implements SystemProbe: a best-effort snapshot of
// host resource usage (spec §4.6), built on gopsutil the way the
// teacher's bor fingerprinting does
// (ethereum-go-ethereum/internal/cli/bor_fingerprint.go).
package sysprobe

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Unknown marks a metric that could not be sampled (spec §4.6: "a
// missing metric surfaces as unknown rather than failing the whole
// sample").
const Unknown = -1

// Sample is one SystemProbe reading. Any field left at Unknown failed
// to sample; the remaining fields are still valid.
type Sample struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
	NetRxBytes    uint64
	NetTxBytes    uint64
	ProcessCount  int
}

// Probe samples host metrics. DiskPath is the filesystem containing
// the configuration directory, per spec §4.6.
type Probe struct {
	DiskPath string
}

// New builds a Probe that reports disk usage for diskPath.
func New(diskPath string) *Probe {
	if diskPath == "" {
		diskPath = "/"
	}
	return &Probe{DiskPath: diskPath}
}

// Sample takes one synchronous, best-effort reading. The first call's
// CPU percent is an instantaneous reading (per-core average since
// process start); subsequent calls measure since the previous call.
func (p *Probe) Sample(ctx context.Context) Sample {
	s := Sample{
		CPUPercent:    Unknown,
		MemoryPercent: Unknown,
		DiskPercent:   Unknown,
		ProcessCount:  Unknown,
	}

	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemoryPercent = vm.UsedPercent
	}

	if du, err := disk.UsageWithContext(ctx, p.DiskPath); err == nil {
		s.DiskPercent = du.UsedPercent
	}

	if counters, err := gnet.IOCountersWithContext(ctx, true); err == nil {
		var rx, tx uint64
		for _, c := range counters {
			if c.Name == "lo" || c.Name == "lo0" {
				continue
			}
			rx += c.BytesRecv
			tx += c.BytesSent
		}
		s.NetRxBytes = rx
		s.NetTxBytes = tx
	}

	if pids, err := process.PidsWithContext(ctx); err == nil {
		s.ProcessCount = len(pids)
	}

	return s
}
