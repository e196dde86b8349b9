package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/docxology/nockit/internal/nockiterr"
)

const fileName = "config.toml"

// Store resolves a configuration directory and performs the
// load/create/save lifecycle described in spec §4.1.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. dir is not touched until
// EnsureLayout or LoadOrCreate is called.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the canonical config file path under Dir.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, fileName)
}

// EnsureLayout creates Dir and its logs/, backups/, scripts/
// subdirectories. It is idempotent.
func (s *Store) EnsureLayout() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create config directory", err)
	}
	for _, sub := range LogSubdirs {
		if err := os.MkdirAll(filepath.Join(s.Dir, sub), 0o755); err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "create "+sub+" directory", err)
		}
	}
	return nil
}

// LoadOrCreate loads config.toml under Dir, creating a fresh default
// document if none exists. A document missing fields is filled from
// Default() and the canonical form is rewritten back to disk.
func (s *Store) LoadOrCreate() (Config, error) {
	if err := s.EnsureLayout(); err != nil {
		return Config{}, err
	}
	path := s.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := s.Save(cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	cfg, err := s.Load()
	if err != nil {
		return Config{}, err
	}
	// Rewrite canonically so a partial document on disk is normalized;
	// this is a no-op write when the document was already canonical.
	if err := s.Save(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses config.toml from Dir without creating or
// rewriting anything. Fields absent from the document are left at
// their Default() value.
func (s *Store) Load() (Config, error) {
	return s.LoadPath(s.Path())
}

// LoadPath loads a configuration document from an arbitrary path.
func (s *Store) LoadPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nockiterr.Wrap(nockiterr.KindIO, "read config file "+path, err)
	}
	cfg := Default()
	if cfg.Extras == nil {
		cfg.Extras = map[string]string{}
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, nockiterr.Wrap(nockiterr.KindConfiguration, "invalid configuration", err)
	}
	return cfg, nil
}

// Save serializes cfg to config.toml under Dir atomically: it writes
// to a temporary file in the same directory and renames it into
// place, so a concurrent reader never observes a partial write.
func (s *Store) Save(cfg Config) error {
	return s.SavePath(cfg, s.Path())
}

// SavePath serializes cfg to an arbitrary path atomically.
func (s *Store) SavePath(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create config directory", err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return nockiterr.Wrap(nockiterr.KindConfiguration, "serialize configuration", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml.tmp")
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create temp config file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nockiterr.Wrap(nockiterr.KindIO, "write temp config file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nockiterr.Wrap(nockiterr.KindIO, "close temp config file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nockiterr.Wrap(nockiterr.KindIO, "rename config file into place", err)
	}
	return nil
}
