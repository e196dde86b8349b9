package bench

import (
	"runtime"
	"sort"
	"time"
)

// Run executes warmup iterations of fn (discarded) then iterations
// timed ones, computing mean/median/p95/p99 over the sorted per-call
// durations (spec §4.10). fn returning a non-nil error counts toward
// ErrorCount but does not stop the run.
func Run(name string, warmup, iterations uint64, fn func() error) Result {
	for i := uint64(0); i < warmup; i++ {
		fn()
	}

	var memBefore, memAfter runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	samples := make([]float64, 0, iterations)
	var errCount uint64
	start := time.Now()
	for i := uint64(0); i < iterations; i++ {
		callStart := time.Now()
		if err := fn(); err != nil {
			errCount++
		}
		samples = append(samples, float64(time.Since(callStart).Nanoseconds()))
	}
	total := time.Since(start)

	runtime.ReadMemStats(&memAfter)

	sort.Float64s(samples)

	result := Result{
		Name:             name,
		Iterations:       iterations,
		Warmup:           warmup,
		TotalDurationNS:  total.Nanoseconds(),
		MemoryDeltaBytes: int64(memAfter.HeapAlloc) - int64(memBefore.HeapAlloc),
		ErrorCount:       errCount,
	}
	if iterations > 0 {
		result.SuccessRatePct = float64(iterations-errCount) / float64(iterations) * 100
		result.ThroughputOpsPerSec = float64(iterations) / total.Seconds()
	}
	if len(samples) > 0 {
		result.MeanNS = mean(samples)
		result.MedianNS = percentile(samples, 50)
		result.P95NS = percentile(samples, 95)
		result.P99NS = percentile(samples, 99)
	}
	return result
}

func mean(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// percentile expects samples already sorted ascending.
func percentile(samples []float64, p float64) float64 {
	if len(samples) == 1 {
		return samples[0]
	}
	rank := p / 100 * float64(len(samples)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(samples) {
		return samples[len(samples)-1]
	}
	frac := rank - float64(lower)
	return samples[lower]*(1-frac) + samples[upper]*frac
}
