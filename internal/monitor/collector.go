// Package monitor implements MonitorLoop: the cooperative periodic
// driver that samples SystemProbe, queries ProcessSupervisor, and
// renders a HealthReport each tick (spec §4.8).
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/docxology/nockit/internal/health"
	"github.com/docxology/nockit/internal/logstore"
	"github.com/docxology/nockit/internal/supervisor"
	"github.com/docxology/nockit/internal/sysprobe"
)

// NockchainStream is the supervised stream name the collector reads
// error counts and running state from.
const NockchainStream = "nockchain"

// MonitorStream is the LogStore stream every HealthReport is appended
// to (spec §4.8).
const MonitorStream = "monitor"

// Collector bundles everything one HealthAggregator tick needs.
type Collector struct {
	Probe         *sysprobe.Probe
	Supervisor    *supervisor.Supervisor
	Store         *logstore.Store
	ExpectedToRun bool
	PeerCount     func() int
}

// Collect produces one HealthReport and appends it to the monitor
// stream.
func (c *Collector) Collect(ctx context.Context) health.Report {
	sample := c.Probe.Sample(ctx)

	status, _ := c.Supervisor.Status(NockchainStream)

	peerCount := 0
	if c.PeerCount != nil {
		peerCount = c.PeerCount()
	}

	report := health.Aggregate(health.Input{
		System:         sample,
		Process:        status,
		ExpectedToRun:  c.ExpectedToRun,
		PeerCount:      peerCount,
		ErrorsLastHour: c.errorsLastHour(),
	})

	c.Store.Append(MonitorStream, reportRecord(report))
	return report
}

// errorsLastHour counts error-level records on the nockchain stream
// within the trailing hour.
func (c *Collector) errorsLastHour() uint64 {
	records, err := c.Store.TailAll(NockchainStream)
	if err != nil {
		return 0
	}
	cutoff := time.Now().Add(-time.Hour)
	var count uint64
	for _, r := range records {
		if r.Timestamp.After(cutoff) && r.Level == logstore.LevelError {
			count++
		}
	}
	return count
}

func reportRecord(r health.Report) logstore.Record {
	fields := map[string]string{
		"cpu_pct":          fmt.Sprintf("%.2f", r.System.CPUPercent),
		"memory_pct":       fmt.Sprintf("%.2f", r.System.MemoryPercent),
		"disk_pct":         fmt.Sprintf("%.2f", r.System.DiskPercent),
		"running":          fmt.Sprintf("%t", r.Nockchain.Running),
		"peer_count":       fmt.Sprintf("%d", r.Nockchain.PeerCount),
		"errors_last_hour": fmt.Sprintf("%d", r.Nockchain.ErrorsLastHour),
		"nockchain_status": string(r.Nockchain.Status),
	}
	level := logstore.LevelInfo
	switch r.Overall {
	case health.StatusWarning:
		level = logstore.LevelWarn
	case health.StatusCritical:
		level = logstore.LevelError
	}
	return logstore.NewRecord(level, "monitor", "health report: "+string(r.Overall), fields)
}
