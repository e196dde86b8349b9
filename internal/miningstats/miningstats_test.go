package miningstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveAndCurrentRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	stats := Stats{StartTime: time.Now().UTC(), BlocksMined: 3, HashRate: 12.5, Difficulty: 100}
	require.NoError(t, store.Save(stats))

	current, err := store.Current()
	require.NoError(t, err)
	require.Equal(t, uint64(3), current.BlocksMined)
	require.InDelta(t, 12.5, current.HashRate, 0.001)
}

func TestAnalyzeAggregatesSessionsWithinPeriod(t *testing.T) {
	store := New(t.TempDir())
	now := time.Now().UTC()

	require.NoError(t, store.Save(Stats{StartTime: now.Add(-2 * time.Hour), BlocksMined: 5, HashRate: 10, RewardsEarned: 50, UptimeSeconds: 3600}))
	require.NoError(t, store.Save(Stats{StartTime: now.Add(-48 * time.Hour), BlocksMined: 100, HashRate: 20, RewardsEarned: 900, UptimeSeconds: 7200}))

	summary, err := store.Analyze(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Sessions)
	require.Equal(t, uint64(5), summary.TotalBlocks)
	require.InDelta(t, 10, summary.AverageHashPS, 0.001)
}

func TestAnalyzeWithNoSnapshotsReturnsEmptySummary(t *testing.T) {
	store := New(t.TempDir())
	summary, err := store.Analyze(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Sessions)
}

func TestCurrentErrorsWhenNothingSaved(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Current()
	require.Error(t, err)
}

func TestRecordErrorUpdatesCountAndLastError(t *testing.T) {
	stats := Stats{StartTime: time.Now().UTC()}
	stats.RecordError(MiningError{Timestamp: time.Now().UTC(), ErrorType: "network", Message: "peer unreachable", Severity: "warning"})
	stats.RecordError(MiningError{Timestamp: time.Now().UTC(), ErrorType: "network", Message: "connection reset", Severity: "error"})

	require.Equal(t, uint64(2), stats.ErrorCount)
	require.Equal(t, "connection reset", stats.LastError)
	require.Len(t, stats.Errors, 2)
}

func TestSaveAndCurrentRoundTripLastBlockTimeAndErrors(t *testing.T) {
	store := New(t.TempDir())
	blockTime := time.Now().UTC()
	stats := Stats{StartTime: blockTime.Add(-time.Hour), LastBlockTime: &blockTime}
	stats.RecordError(MiningError{Timestamp: blockTime, ErrorType: "process", Message: "child exited", Severity: "error"})
	require.NoError(t, store.Save(stats))

	current, err := store.Current()
	require.NoError(t, err)
	require.NotNil(t, current.LastBlockTime)
	require.WithinDuration(t, blockTime, *current.LastBlockTime, time.Second)
	require.Equal(t, uint64(1), current.ErrorCount)
	require.Equal(t, "child exited", current.LastError)
}
