package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	cfg, err := store.LoadOrCreate()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	for _, sub := range LogSubdirs {
		require.DirExists(t, filepath.Join(dir, sub))
	}
	require.FileExists(t, store.Path())
}

func TestSaveRoundTripIsByteStable(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	cfg := Default()
	cfg.Mining.DefaultPubkey = "abc123"
	cfg.Network.BootstrapPeers = []string{"/ip4/1.2.3.4/udp/1234/quic-v1"}

	require.NoError(t, store.Save(cfg))
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	loaded, err := store.LoadOrCreate()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadFillsMissingFieldsFromDefaults(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, store.EnsureLayout())

	partial := "[mining]\ndefault_pubkey = \"only-this-field\"\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(partial), 0o644))

	cfg, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "only-this-field", cfg.Mining.DefaultPubkey)
	require.Equal(t, Default().Logging, cfg.Logging)
	require.Equal(t, uint32(30), cfg.Mining.StatsRetentionDays)
}

func TestLoadRejectsUnparseableDocument(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, store.EnsureLayout())
	require.NoError(t, os.WriteFile(store.Path(), []byte("not = [valid toml"), 0o644))

	_, err := store.Load()
	require.Error(t, err)
}
