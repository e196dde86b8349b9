package bench

// BenchmarkDelta is one benchmark's change between two suite runs,
// grounded on the original crate's compare_benchmarks
// (original_source/nockit/src/bench.rs).
type BenchmarkDelta struct {
	Name               string
	CurrentMeanNS      float64
	PreviousMeanNS     float64
	MeanChangePct      float64
	ThroughputChangePct float64
	Regressed          bool
}

// RegressionThresholdPct marks a benchmark regressed if its mean
// latency grew by more than this percentage.
const RegressionThresholdPct = 10.0

// Compare reports the per-benchmark percentage change between two
// suites, matched by name. Benchmarks present in only one suite are
// skipped.
func Compare(current, previous Suite) []BenchmarkDelta {
	prevByName := make(map[string]Result, len(previous.Results))
	for _, r := range previous.Results {
		prevByName[r.Name] = r
	}

	var deltas []BenchmarkDelta
	for _, cur := range current.Results {
		prev, ok := prevByName[cur.Name]
		if !ok || prev.MeanNS == 0 {
			continue
		}
		meanChange := (cur.MeanNS - prev.MeanNS) / prev.MeanNS * 100
		var throughputChange float64
		if prev.ThroughputOpsPerSec != 0 {
			throughputChange = (cur.ThroughputOpsPerSec - prev.ThroughputOpsPerSec) / prev.ThroughputOpsPerSec * 100
		}
		deltas = append(deltas, BenchmarkDelta{
			Name:                cur.Name,
			CurrentMeanNS:       cur.MeanNS,
			PreviousMeanNS:      prev.MeanNS,
			MeanChangePct:       meanChange,
			ThroughputChangePct: throughputChange,
			Regressed:           meanChange > RegressionThresholdPct,
		})
	}
	return deltas
}
