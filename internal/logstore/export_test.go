package logstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportJSONWritesSortedEntries(t *testing.T) {
	store := New(t.TempDir(), "compact", 0, 0)
	require.NoError(t, store.Append("test", NewRecord(LevelInfo, "wallet", "first", nil)))
	require.NoError(t, store.Append("test", NewRecord(LevelError, "wallet", "second", nil)))

	out := filepath.Join(t.TempDir(), "export.json")
	n, err := store.Export("test", ExportJSON, out)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "first")
	require.Contains(t, string(data), "second")
}

func TestExportCSVWritesHeaderAndRows(t *testing.T) {
	store := New(t.TempDir(), "compact", 0, 0)
	require.NoError(t, store.Append("test", NewRecord(LevelInfo, "wallet", "hello, world", nil)))

	out := filepath.Join(t.TempDir(), "export.csv")
	_, err := store.Export("test", ExportCSV, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "timestamp,level,component,message", lines[0])
	require.Len(t, lines, 2)
}

func TestExportTextWritesOneLinePerRecord(t *testing.T) {
	store := New(t.TempDir(), "compact", 0, 0)
	require.NoError(t, store.Append("test", NewRecord(LevelWarn, "network", "slow peer", nil)))

	out := filepath.Join(t.TempDir(), "export.txt")
	_, err := store.Export("test", ExportText, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "network: slow peer")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	store := New(t.TempDir(), "compact", 0, 0)
	_, err := store.Export("test", "yaml", filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
}

func TestExportEmptyStreamMergesAllStreams(t *testing.T) {
	store := New(t.TempDir(), "compact", 0, 0)
	require.NoError(t, store.Append("a", NewRecord(LevelInfo, "wallet", "one", nil)))
	require.NoError(t, store.Append("b", NewRecord(LevelInfo, "mining", "two", nil)))

	out := filepath.Join(t.TempDir(), "export.txt")
	n, err := store.Export("", ExportText, out)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
