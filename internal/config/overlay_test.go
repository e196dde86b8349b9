package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayPeerPortPrefersEnv(t *testing.T) {
	t.Setenv(EnvPeerPort, "4001")
	o := NewOverlay(Config{Nockchain: NockchainConfig{PeerPort: 9}})
	require.Equal(t, uint16(4001), o.PeerPort())
}

func TestOverlayPeerPortFallsBackToConfig(t *testing.T) {
	o := NewOverlay(Config{Nockchain: NockchainConfig{PeerPort: 9}})
	require.Equal(t, uint16(9), o.PeerPort())
}

func TestOverlayBenchIterationsPrefersEnv(t *testing.T) {
	t.Setenv(EnvBenchIters, "500")
	o := NewOverlay(Config{Benchmarking: BenchmarkingConfig{Iterations: 1000}})
	require.Equal(t, uint64(500), o.BenchIterations())
}

func TestOverlayBindAddressFallsBackToConfig(t *testing.T) {
	o := NewOverlay(Config{Nockchain: NockchainConfig{BindAddress: "/ip4/0.0.0.0/udp/0/quic-v1"}})
	require.Equal(t, "/ip4/0.0.0.0/udp/0/quic-v1", o.BindAddress())
}
