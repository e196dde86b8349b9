package config

import "os"

// Recognized environment variables (spec §6).
const (
	EnvConfigDir    = "NOCKIT_CONFIG_DIR"
	EnvLogLevel     = "NOCKIT_LOG_LEVEL"
	EnvLogFormat    = "NOCKIT_LOG_FORMAT"
	EnvMiningPubkey = "MINING_PUBKEY"
	EnvPeerPort     = "NOCKIT_PEER_PORT"
	EnvBindAddress  = "NOCKIT_BIND_ADDRESS"
	EnvBenchIters   = "NOCKIT_BENCH_ITERATIONS"
	EnvBenchFormat  = "NOCKIT_BENCH_FORMAT"
)

// ValidLevels and ValidFormats enumerate the fixed value sets from
// spec §3. Nothing in the module checks flags or config values
// against them.
var (
	ValidLevels  = []string{"trace", "debug", "info", "warn", "error"}
	ValidFormats = []string{"pretty", "json", "compact"}
)

// MiningPubkey returns the effective mining public key: the
// environment variable takes precedence over the config value, the
// way the original crate's EnvManager treats MINING_PUBKEY
// (original_source/nockit/src/config.rs: get_mining_pubkey).
func (c Config) MiningPubkey() string {
	if v := os.Getenv(EnvMiningPubkey); v != "" {
		return v
	}
	return c.Mining.DefaultPubkey
}

// LogLevel returns the effective log level, env override first.
func (c Config) LogLevel() string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	return c.Logging.Level
}

// LogFormat returns the effective log format, env override first.
func (c Config) LogFormat() string {
	if v := os.Getenv(EnvLogFormat); v != "" {
		return v
	}
	return c.Logging.Format
}

// SetMiningPubkey mutates the config's default mining pubkey, mirroring
// NockitConfig::set_mining_pubkey in the original crate.
func (c *Config) SetMiningPubkey(pubkey string) {
	c.Mining.DefaultPubkey = pubkey
}

// NockchainEnv assembles the environment variables the supervised
// nockchain/miner child processes should inherit, mirroring
// EnvManager::set_nockchain_env / get_nockchain_env.
func (c Config) NockchainEnv() []string {
	env := os.Environ()
	if pk := c.MiningPubkey(); pk != "" {
		env = append(env, EnvMiningPubkey+"="+pk)
	}
	env = append(env, "RUST_LOG="+c.LogLevel())
	return env
}
