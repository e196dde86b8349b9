package bench

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunComputesStatsOverSortedSamples(t *testing.T) {
	result := Run("noop", 5, 50, func() error { return nil })

	require.Equal(t, uint64(50), result.Iterations)
	require.Equal(t, uint64(5), result.Warmup)
	require.Equal(t, uint64(0), result.ErrorCount)
	require.InDelta(t, 100.0, result.SuccessRatePct, 0.001)
	require.GreaterOrEqual(t, result.MedianNS, 0.0)
	require.GreaterOrEqual(t, result.P99NS, result.P95NS)
	require.GreaterOrEqual(t, result.P95NS, result.MedianNS)
	require.Greater(t, result.ThroughputOpsPerSec, 0.0)
}

func TestRunCountsErrorsWithoutStopping(t *testing.T) {
	calls := 0
	result := Run("flaky", 0, 10, func() error {
		calls++
		if calls%2 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	require.Equal(t, uint64(10), result.Iterations)
	require.Equal(t, uint64(5), result.ErrorCount)
	require.InDelta(t, 50.0, result.SuccessRatePct, 0.001)
}

func TestRunHandlesZeroIterations(t *testing.T) {
	result := Run("empty", 0, 0, func() error { return nil })
	require.Equal(t, uint64(0), result.Iterations)
	require.Equal(t, 0.0, result.MeanNS)
}

func TestRunMeanConvergesForConstantTimeOperation(t *testing.T) {
	const sleepFor = 200 * time.Microsecond
	small := Run("const-op-small", 5, 20, func() error { time.Sleep(sleepFor); return nil })
	large := Run("const-op-large", 5, 200, func() error { time.Sleep(sleepFor); return nil })

	target := float64(sleepFor.Nanoseconds())
	smallErr := (small.MeanNS - target) / target
	largeErr := (large.MeanNS - target) / target
	if smallErr < 0 {
		smallErr = -smallErr
	}
	if largeErr < 0 {
		largeErr = -largeErr
	}
	require.LessOrEqual(t, largeErr, smallErr+0.5, "mean relative error should not grow with more iterations")

	require.GreaterOrEqual(t, large.P99NS, large.MedianNS)
	require.GreaterOrEqual(t, large.MedianNS, large.MeanNS/2)
}

func TestPercentileSingleSample(t *testing.T) {
	require.Equal(t, 5.0, percentile([]float64{5}, 95))
}

func TestPercentileInterpolatesBetweenSamples(t *testing.T) {
	samples := []float64{0, 10, 20, 30, 40}
	require.InDelta(t, 20, percentile(samples, 50), 0.001)
	require.InDelta(t, 40, percentile(samples, 100), 0.001)
	require.InDelta(t, 0, percentile(samples, 0), 0.001)
}

func TestProfilerReportsRelativeCheckpointDurations(t *testing.T) {
	p := NewProfiler()
	time.Sleep(2 * time.Millisecond)
	p.Checkpoint("setup")
	time.Sleep(2 * time.Millisecond)
	p.Checkpoint("execute")

	report := p.Report()
	require.Len(t, report.Checkpoints, 2)
	require.Equal(t, "setup", report.Checkpoints[0].Name)
	require.Equal(t, "execute", report.Checkpoints[1].Name)
	require.Greater(t, report.Checkpoints[0].Duration, time.Duration(0))
	require.Greater(t, report.Checkpoints[1].Duration, time.Duration(0))
	require.GreaterOrEqual(t, report.TotalDuration, report.Checkpoints[0].Duration+report.Checkpoints[1].Duration)
}

func TestCollectSystemInfoReportsPlausibleValues(t *testing.T) {
	info := CollectSystemInfo()
	require.NotEmpty(t, info.OS)
	require.NotEmpty(t, info.Arch)
	require.Greater(t, info.CPUCount, 0)
}

func TestRunSuiteCoversEveryFixedBenchmark(t *testing.T) {
	dataDir := t.TempDir()
	suite, profiles := RunSuite("smoke", "", 1, 3, dataDir, false)

	require.Equal(t, "smoke", suite.Name)
	require.Len(t, suite.Results, len(fixedBenchmarks(dataDir)))
	require.Nil(t, profiles)
	for _, r := range suite.Results {
		require.Equal(t, uint64(3), r.Iterations)
	}
}

func TestRunSuiteFiltersByCategory(t *testing.T) {
	dataDir := t.TempDir()
	suite, _ := RunSuite("crypto-only", CategoryCrypto, 0, 2, dataDir, false)

	for _, r := range suite.Results {
		require.NotEqual(t, "file_io", r.Name)
		require.NotEqual(t, "network_loopback", r.Name)
	}
	require.NotEmpty(t, suite.Results)
}

func TestRunSuiteProfileModeProducesReports(t *testing.T) {
	dataDir := t.TempDir()
	suite, profiles := RunSuite("profiled", CategoryCrypto, 0, 2, dataDir, true)
	require.Len(t, profiles, len(suite.Results))
	for _, p := range profiles {
		require.Len(t, p.Checkpoints, 2)
	}
}

func TestSaveAndLoadSuiteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dataDir := t.TempDir()
	suite, _ := RunSuite("roundtrip", CategoryCrypto, 0, 2, dataDir, false)

	path, err := SaveSuite(dir, suite)
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(path), dir)

	loaded, err := LoadSuite(path)
	require.NoError(t, err)
	require.Equal(t, suite.Name, loaded.Name)
	require.Len(t, loaded.Results, len(suite.Results))
}

func TestCompareReportsRegressionsAndImprovements(t *testing.T) {
	previous := Suite{Results: []Result{
		{Name: "sign", MeanNS: 1000, ThroughputOpsPerSec: 1000},
		{Name: "verify", MeanNS: 2000, ThroughputOpsPerSec: 500},
	}}
	current := Suite{Results: []Result{
		{Name: "sign", MeanNS: 1200, ThroughputOpsPerSec: 830},
		{Name: "verify", MeanNS: 1000, ThroughputOpsPerSec: 1000},
	}}

	deltas := Compare(current, previous)
	require.Len(t, deltas, 2)

	byName := map[string]BenchmarkDelta{}
	for _, d := range deltas {
		byName[d.Name] = d
	}
	require.True(t, byName["sign"].Regressed)
	require.InDelta(t, 20.0, byName["sign"].MeanChangePct, 0.001)
	require.False(t, byName["verify"].Regressed)
	require.InDelta(t, -50.0, byName["verify"].MeanChangePct, 0.001)
}

func TestCompareSkipsBenchmarksMissingFromEitherSuite(t *testing.T) {
	previous := Suite{Results: []Result{{Name: "only_previous", MeanNS: 1000}}}
	current := Suite{Results: []Result{{Name: "only_current", MeanNS: 1000}}}

	deltas := Compare(current, previous)
	require.Empty(t, deltas)
}
