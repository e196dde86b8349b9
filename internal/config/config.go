// Package config implements ConfigStore: the load/create/save lifecycle
// for nockit's single persisted configuration document, and the
// directory layout (§6 of the spec) that every other component reads
// from or writes into.
package config

// Config is the full persisted configuration tree. Every field has a
// default (see Default); loading a document that omits a field leaves
// that field at its default rather than erroring.
type Config struct {
	Nockchain    NockchainConfig    `toml:"nockchain"`
	Wallet       WalletConfig       `toml:"wallet"`
	Mining       MiningConfig       `toml:"mining"`
	Network      NetworkConfig      `toml:"network"`
	Logging      LoggingConfig      `toml:"logging"`
	Benchmarking BenchmarkingConfig `toml:"benchmarking"`
	// Extras carries forward-compatible options the current version
	// of nockit doesn't know about, so a config written by a newer
	// version round-trips through an older one without data loss.
	Extras map[string]string `toml:"extras"`
}

type NockchainConfig struct {
	BinaryPath  string `toml:"binary_path"`
	DataDir     string `toml:"data_dir"`
	BindAddress string `toml:"bind_address"`
	PeerPort    uint16 `toml:"peer_port"`
}

type WalletConfig struct {
	BinaryPath string `toml:"binary_path"`
	WalletDir  string `toml:"wallet_dir"`
	BackupDir  string `toml:"backup_dir"`
}

type MiningConfig struct {
	DefaultPubkey      string `toml:"default_pubkey"`
	DifficultyTarget   uint64 `toml:"difficulty_target"`
	StatsRetentionDays uint32 `toml:"stats_retention_days"`
}

type NetworkConfig struct {
	BootstrapPeers    []string `toml:"bootstrap_peers"`
	ConnectionTimeout uint64   `toml:"connection_timeout_seconds"`
	MaxPeers          uint32   `toml:"max_peers"`
}

// Level and Format take their values from ValidLevels and ValidFormats
// in env.go; loading and saving do not check them.
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	RotationSizeMB uint64 `toml:"rotation_size_mb"`
	RetentionDays  uint32 `toml:"retention_days"`
}

type BenchmarkingConfig struct {
	Iterations       uint64 `toml:"iterations"`
	WarmupIterations uint64 `toml:"warmup_iterations"`
	OutputFormat     string `toml:"output_format"`
	SaveResults      bool   `toml:"save_results"`
}

// Default returns the canonical default configuration, matching the
// original nockit crate's defaults (original_source/nockit/src/config.rs).
func Default() Config {
	return Config{
		Nockchain: NockchainConfig{
			DataDir:     ".data.nockchain",
			BindAddress: "/ip4/0.0.0.0/udp/0/quic-v1",
			PeerPort:    0,
		},
		Wallet: WalletConfig{
			WalletDir: ".nockchain-wallet",
			BackupDir: "wallet-backups",
		},
		Mining: MiningConfig{
			StatsRetentionDays: 30,
		},
		Network: NetworkConfig{
			BootstrapPeers:    []string{},
			ConnectionTimeout: 30,
			MaxPeers:          50,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "pretty",
			RotationSizeMB: 100,
			RetentionDays:  7,
		},
		Benchmarking: BenchmarkingConfig{
			Iterations:       1000,
			WarmupIterations: 100,
			OutputFormat:     "table",
			SaveResults:      true,
		},
		Extras: map[string]string{},
	}
}

// LogSubdirs are the fixed subdirectories created under a config
// directory by Store.EnsureLayout.
var LogSubdirs = []string{"logs", "backups", "scripts"}
