package logstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendAndTailOrdering(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "compact", 100, 7)

	for i := 0; i < 5; i++ {
		rec := NewRecord(LevelInfo, "mining", fmt.Sprintf("message %d", i), nil)
		require.NoError(t, store.Append("nockchain", rec))
	}

	records, err := store.Tail("nockchain", 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "message 2", records[0].Message)
	require.Equal(t, "message 4", records[2].Message)
}

func TestAppendRotatesOnSizeThreshold(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "compact", 0, 0)
	store.rotationBytes = 200 // force rotation quickly for the test

	for i := 0; i < 50; i++ {
		rec := NewRecord(LevelInfo, "mining", fmt.Sprintf("padded message number %03d", i), nil)
		require.NoError(t, store.Append("miner", rec))
	}
	require.NoError(t, store.Close())

	paths, err := listSegments(store.LogsDir(), "miner")
	require.NoError(t, err)
	require.Greater(t, len(paths), 1, "expected rotation to have produced multiple segments")

	records, err := store.TailAll("miner")
	require.NoError(t, err)
	require.Len(t, records, 50)
	for i := 1; i < len(records); i++ {
		require.False(t, records[i].Before(records[i-1]))
	}
}

func TestTailZeroLinesReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "compact", 100, 7)
	require.NoError(t, store.Append("nockchain", NewRecord(LevelInfo, "mining", "hello", nil)))

	records, err := store.Tail("nockchain", 0)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestTailNegativeReturnsEverything(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "compact", 100, 7)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append("nockchain", NewRecord(LevelInfo, "mining", fmt.Sprintf("m%d", i), nil)))
	}

	records, err := store.Tail("nockchain", -1)
	require.NoError(t, err)
	require.Len(t, records, 5)

	all, err := store.TailAll("nockchain")
	require.NoError(t, err)
	require.Equal(t, records, all)
}

func TestFormatLineQuotesWhitespace(t *testing.T) {
	rec := NewRecord(LevelWarn, "network", "peer dropped", map[string]string{"addr": "1.2.3.4 slow"})
	line := FormatLine(rec, "compact")
	require.Contains(t, line, `addr="1.2.3.4 slow"`)

	parsed, ok := ParseLine(line)
	require.True(t, ok)
	require.Equal(t, rec.Message, parsed.Message)
	require.Equal(t, "1.2.3.4 slow", parsed.Fields["addr"])
}

func TestParseLineSkipsGarbage(t *testing.T) {
	_, ok := ParseLine("not a log line at all")
	require.False(t, ok)
}

func TestSearchFiltersByPatternAndLevel(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "compact", 100, 7)

	require.NoError(t, store.Append("nockchain", NewRecord(LevelInfo, "mining", "hash rate 120 H/s", nil)))
	require.NoError(t, store.Append("nockchain", NewRecord(LevelError, "mining", "connection refused", nil)))
	require.NoError(t, store.Append("nockchain", NewRecord(LevelInfo, "network", "peer connected", nil)))

	out, errc := store.Search(context.Background(), "nockchain", "connection", TimeRange{}, []Level{LevelError})
	var got []Record
	for rec := range out {
		got = append(got, rec)
	}
	require.NoError(t, <-errc)
	require.Len(t, got, 1)
	require.Equal(t, "connection refused", got[0].Message)
}

func TestCleanRemovesExpiredSegments(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logsDir, 0o755))

	oldTime := time.Now().Add(-10 * 24 * time.Hour)
	oldPath := rotatedPath(logsDir, "nockchain", oldTime)
	require.NoError(t, os.WriteFile(oldPath, []byte("stale\n"), 0o644))
	require.NoError(t, os.Chtimes(oldPath, oldTime, oldTime))

	store := New(dir, "compact", 100, 7)
	removed, err := store.Clean(7)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	_, statErr := os.Stat(oldPath)
	require.True(t, os.IsNotExist(statErr))
}
