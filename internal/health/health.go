// Package health implements HealthAggregator: combining one
// SystemProbe sample, the most recent ProcessSupervisor state, and a
// LogStore error count into a single deterministic HealthReport (spec
// §4.7).
package health

import (
	"time"

	"github.com/docxology/nockit/internal/supervisor"
	"github.com/docxology/nockit/internal/sysprobe"
)

// Status is the four-value health classification from spec §3/§4.7.
type Status string

const (
	StatusHealthy  Status = "Healthy"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
	StatusUnknown  Status = "Unknown"
)

// SystemHealth mirrors spec §3's HealthReport.system sub-document.
type SystemHealth struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
	NetRxBytes    uint64
	NetTxBytes    uint64
	ProcessCount  int
}

// NockchainHealth mirrors spec §3's HealthReport.nockchain sub-document.
type NockchainHealth struct {
	Running         bool
	PID             int
	UptimeSeconds   uint64
	LastBlockHeight *uint64
	PeerCount       int
	ErrorsLastHour  uint64
	Status          Status
}

// Report is one HealthAggregator tick's output.
type Report struct {
	Timestamp time.Time
	System    SystemHealth
	Nockchain NockchainHealth
	Overall   Status
}

// Input bundles what a single aggregation pass needs: whether sampling
// itself succeeded, the raw system sample, the supervisor's observed
// state for the nockchain stream, the live peer count if known, and
// the error count LogStore reports over the last hour.
type Input struct {
	SampleFailed   bool
	System         sysprobe.Sample
	Process        supervisor.Status
	ExpectedToRun  bool
	PeerCount      int
	ErrorsLastHour uint64
}

// Aggregate classifies Input into a Report, following the exact
// threshold table in spec §4.7.
func Aggregate(in Input) Report {
	if in.SampleFailed {
		return Report{
			Timestamp: time.Now().UTC(),
			Overall:   StatusUnknown,
			Nockchain: NockchainHealth{Status: StatusUnknown},
		}
	}

	sys := SystemHealth{
		CPUPercent:    in.System.CPUPercent,
		MemoryPercent: in.System.MemoryPercent,
		DiskPercent:   in.System.DiskPercent,
		NetRxBytes:    in.System.NetRxBytes,
		NetTxBytes:    in.System.NetTxBytes,
		ProcessCount:  in.System.ProcessCount,
	}

	running := in.Process.State == supervisor.StateRunning
	var uptime uint64
	if running {
		uptime = uint64(in.Process.Uptime.Seconds())
	}

	nockchainStatus := StatusHealthy
	if !running && in.ExpectedToRun {
		nockchainStatus = StatusCritical
	} else if in.Process.State == supervisor.StateCrashed {
		nockchainStatus = StatusCritical
	} else if running && in.PeerCount < 3 {
		nockchainStatus = StatusWarning
	}

	nc := NockchainHealth{
		Running:        running,
		PID:            in.Process.PID,
		UptimeSeconds:  uptime,
		PeerCount:      in.PeerCount,
		ErrorsLastHour: in.ErrorsLastHour,
		Status:         nockchainStatus,
	}

	overall := classify(sys, nc, in)

	return Report{
		Timestamp: time.Now().UTC(),
		System:    sys,
		Nockchain: nc,
		Overall:   overall,
	}
}

// classify runs the Healthy -> Warning -> Critical ladder from spec
// §4.7, evaluated in escalating order so a Critical condition always
// wins over a merely Warning one.
func classify(sys SystemHealth, nc NockchainHealth, in Input) Status {
	status := StatusHealthy

	warning := sys.MemoryPercent >= 80 ||
		sys.CPUPercent >= 80 ||
		sys.DiskPercent >= 85 ||
		nc.Status == StatusWarning ||
		in.ErrorsLastHour > 10 ||
		(nc.Running && in.PeerCount < 3)
	if warning {
		status = StatusWarning
	}

	critical := sys.MemoryPercent >= 95 ||
		sys.DiskPercent >= 95 ||
		nc.Status == StatusCritical ||
		in.ErrorsLastHour > 100 ||
		(!nc.Running && in.ExpectedToRun)
	if critical {
		status = StatusCritical
	}

	return status
}
