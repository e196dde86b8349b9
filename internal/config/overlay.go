package config

import (
	"os"
	"strconv"
)

// Overlay is the EnvManager-equivalent environment overlay
// (original_source/nockit/src/config.rs): every environment variable
// in spec §6 takes precedence over the loaded document, and
// CommandSurface resolves an Overlay once per invocation before any
// component reads config values.
type Overlay struct {
	Config Config
}

// NewOverlay wraps a loaded Config for environment resolution.
func NewOverlay(cfg Config) Overlay {
	return Overlay{Config: cfg}
}

// MiningPubkey, LogLevel and LogFormat delegate to Config's own env
// resolution so there is exactly one place that logic lives.
func (o Overlay) MiningPubkey() string { return o.Config.MiningPubkey() }
func (o Overlay) LogLevel() string     { return o.Config.LogLevel() }
func (o Overlay) LogFormat() string    { return o.Config.LogFormat() }

// PeerPort returns the effective peer port, env override first.
func (o Overlay) PeerPort() uint16 {
	if v := os.Getenv(EnvPeerPort); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			return uint16(n)
		}
	}
	return o.Config.Nockchain.PeerPort
}

// BindAddress returns the effective bind multiaddress, env override
// first.
func (o Overlay) BindAddress() string {
	if v := os.Getenv(EnvBindAddress); v != "" {
		return v
	}
	return o.Config.Nockchain.BindAddress
}

// BenchIterations returns the effective benchmark iteration count, env
// override first.
func (o Overlay) BenchIterations() uint64 {
	if v := os.Getenv(EnvBenchIters); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return o.Config.Benchmarking.Iterations
}

// BenchFormat returns the effective benchmark output format, env
// override first.
func (o Overlay) BenchFormat() string {
	if v := os.Getenv(EnvBenchFormat); v != "" {
		return v
	}
	return o.Config.Benchmarking.OutputFormat
}

// NockchainEnv delegates to Config, the overlay's own MiningPubkey
// already folded into it.
func (o Overlay) NockchainEnv() []string { return o.Config.NockchainEnv() }
