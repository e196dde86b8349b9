package loganalyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docxology/nockit/internal/logstore"
)

func rec(level logstore.Level, component, msg string, ts time.Time) logstore.Record {
	return logstore.Record{Timestamp: ts, Level: level, Component: component, Message: msg, Fields: map[string]string{}}
}

func TestClassifyComponentUsesPrefixHints(t *testing.T) {
	base := time.Now()
	require.Equal(t, "mining", ClassifyComponent(rec(logstore.LevelInfo, "other", "mining-on started pubkey=abc", base)))
	require.Equal(t, "network", ClassifyComponent(rec(logstore.LevelInfo, "other", "peer connected 1.2.3.4", base)))
	require.Equal(t, "wallet", ClassifyComponent(rec(logstore.LevelInfo, "other", "balance updated", base)))
	require.Equal(t, "system", ClassifyComponent(rec(logstore.LevelInfo, "", "cpu usage high", base)))
	require.Equal(t, "custom", ClassifyComponent(rec(logstore.LevelInfo, "custom", "unrecognized message", base)))
}

func TestLevelAndComponentCountsAreDeterministic(t *testing.T) {
	base := time.Now()
	records := []logstore.Record{
		rec(logstore.LevelInfo, "mining", "mining-on started", base),
		rec(logstore.LevelError, "network", "peer dial failed", base.Add(time.Second)),
		rec(logstore.LevelError, "network", "peer dial failed", base.Add(2 * time.Second)),
	}

	levels1 := LevelCounts(records)
	levels2 := LevelCounts(records)
	require.Equal(t, levels1, levels2)
	require.Equal(t, 1, levels1[logstore.LevelInfo])
	require.Equal(t, 2, levels1[logstore.LevelError])

	components := ComponentCounts(records)
	require.Equal(t, 1, components["mining"])
	require.Equal(t, 2, components["network"])
}

func TestNormalizeErrorMessageStripsNumbersAndTimestamps(t *testing.T) {
	a := NormalizeErrorMessage("connection refused to peer 10.0.0.5:30333 at 2026-01-02T03:04:05Z")
	b := NormalizeErrorMessage("connection refused to peer 10.0.0.9:40111 at 2026-05-06T07:08:09Z")
	require.Equal(t, a, b)
}

func TestErrorPatternsCountsNormalizedBuckets(t *testing.T) {
	base := time.Now()
	records := []logstore.Record{
		rec(logstore.LevelError, "network", "timeout after 30 seconds", base),
		rec(logstore.LevelError, "network", "timeout after 45 seconds", base.Add(time.Second)),
		rec(logstore.LevelInfo, "network", "timeout after 45 seconds", base.Add(2 * time.Second)),
	}
	digest := ErrorPatterns(records)
	require.Equal(t, 2, digest["timeout after <n> seconds"])
}

func TestExtractMetricSeriesBucketsAndAverages(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logstore.Record{
		rec(logstore.LevelInfo, "mining", "hash rate 100 H/s", base),
		rec(logstore.LevelInfo, "mining", "hash rate 200 H/s", base.Add(30*time.Second)),
		rec(logstore.LevelInfo, "mining", "hash rate 300 H/s", base.Add(90*time.Second)),
	}

	series := ExtractMetricSeries(records, time.Minute)
	require.Len(t, series, 1)
	require.Equal(t, "hash_rate_hps", series[0].Name)
	require.Len(t, series[0].Points, 2)
	require.InDelta(t, 150.0, series[0].Points[0].Value, 0.001)
	require.InDelta(t, 300.0, series[0].Points[1].Value, 0.001)
}

func TestParsePeriodRejectsUnknownShorthand(t *testing.T) {
	_, err := ParsePeriod("3 fortnights")
	require.Error(t, err)

	d, err := ParsePeriod("1d")
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, d)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	base := time.Now()
	records := []logstore.Record{
		rec(logstore.LevelInfo, "mining", "mining-on started", base),
		rec(logstore.LevelError, "network", "dial failed after 5 attempts", base.Add(time.Second)),
	}
	s1 := Analyze(records, time.Minute)
	s2 := Analyze(records, time.Minute)
	require.Equal(t, s1, s2)
}
