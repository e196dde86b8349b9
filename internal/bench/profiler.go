// Package bench implements Benchmarker: warmup-then-timed-iteration
// micro-benchmarks over nockit's own crypto, storage, and network paths
// (spec §4.10), plus suite persistence and comparison
// (original_source/nockit/src/bench.rs).
package bench

import "time"

// Profiler times named checkpoints within a single operation, adapted
// from the original crate's PerformanceProfiler
// (original_source/nockit/src/bench.rs). It is used internally by the
// suite runner to produce --verbose diagnostic timing.
type Profiler struct {
	start       time.Time
	checkpoints []checkpoint
}

type checkpoint struct {
	name string
	at   time.Time
}

// NewProfiler starts a profiler timing from now.
func NewProfiler() *Profiler {
	return &Profiler{start: time.Now()}
}

// Checkpoint records a named point in time relative to the profiler's
// start.
func (p *Profiler) Checkpoint(name string) {
	p.checkpoints = append(p.checkpoints, checkpoint{name: name, at: time.Now()})
}

// CheckpointDuration is how long elapsed since the previous checkpoint
// (or the profiler's start, for the first one).
type CheckpointDuration struct {
	Name     string
	Duration time.Duration
}

// ProfilingReport summarizes the checkpoints recorded so far.
type ProfilingReport struct {
	TotalDuration time.Duration
	Checkpoints   []CheckpointDuration
}

// Report produces a ProfilingReport from the checkpoints recorded so
// far.
func (p *Profiler) Report() ProfilingReport {
	report := ProfilingReport{TotalDuration: time.Since(p.start)}
	last := p.start
	for _, c := range p.checkpoints {
		report.Checkpoints = append(report.Checkpoints, CheckpointDuration{
			Name:     c.name,
			Duration: c.at.Sub(last),
		})
		last = c.at
	}
	return report
}
