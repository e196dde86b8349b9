// Package miningstats persists per-session mining statistics and
// aggregates them over a historical period, adapted from the original
// crate's MiningStats/analyze_stats
// (original_source/nockit/src/mining.rs).
package miningstats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

const statsDirName = "mining_stats"
const currentFileName = "current_mining_stats.json"

// MiningError records one error observed during a mining session.
type MiningError struct {
	Timestamp time.Time `json:"timestamp"`
	ErrorType string    `json:"error_type"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
}

// Stats is one mining session's snapshot, carrying the original
// crate's MiningStats fields plus the LastBlockTime/ErrorCount/
// LastError summary fields the toolkit's own data model requires.
type Stats struct {
	StartTime     time.Time     `json:"start_time"`
	EndTime       *time.Time    `json:"end_time,omitempty"`
	BlocksMined   uint64        `json:"blocks_mined"`
	HashRate      float64       `json:"hash_rate"`
	Difficulty    uint64        `json:"difficulty"`
	RewardsEarned uint64        `json:"rewards_earned"`
	UptimeSeconds uint64        `json:"uptime_seconds"`
	LastBlockTime *time.Time    `json:"last_block_time,omitempty"`
	ErrorCount    uint64        `json:"error_count"`
	LastError     string        `json:"last_error,omitempty"`
	Errors        []MiningError `json:"errors"`
}

// RecordError appends err to the session's error history and updates
// the ErrorCount/LastError summary fields alongside it.
func (s *Stats) RecordError(err MiningError) {
	s.Errors = append(s.Errors, err)
	s.ErrorCount++
	s.LastError = err.Message
}

// Store persists mining stats snapshots under a configuration
// directory.
type Store struct {
	ConfigDir string
}

// New builds a Store rooted at configDir.
func New(configDir string) *Store {
	return &Store{ConfigDir: configDir}
}

func (s *Store) statsDir() string {
	return filepath.Join(s.ConfigDir, statsDirName)
}

func (s *Store) currentPath() string {
	return filepath.Join(s.ConfigDir, currentFileName)
}

// Save persists stats both to a timestamped file under mining_stats/
// and to the config-dir-level "current" snapshot, mirroring
// save_mining_stats.
func (s *Store) Save(stats Stats) error {
	if err := os.MkdirAll(s.statsDir(), 0o755); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create mining stats directory", err)
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "serialize mining stats", err)
	}
	name := "stats_" + stats.StartTime.UTC().Format("20060102_150405") + ".json"
	if err := os.WriteFile(filepath.Join(s.statsDir(), name), data, 0o644); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write mining stats snapshot", err)
	}
	if err := os.WriteFile(s.currentPath(), data, 0o644); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write current mining stats", err)
	}
	return nil
}

// Current loads the most recently saved snapshot.
func (s *Store) Current() (Stats, error) {
	data, err := os.ReadFile(s.currentPath())
	if err != nil {
		return Stats{}, nockiterr.Wrap(nockiterr.KindIO, "read current mining stats", err)
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return Stats{}, nockiterr.Wrap(nockiterr.KindParsing, "parse current mining stats", err)
	}
	return stats, nil
}

// historical loads every persisted snapshot, oldest first.
func (s *Store) historical() ([]Stats, error) {
	entries, err := os.ReadDir(s.statsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, nockiterr.Wrap(nockiterr.KindIO, "list mining stats directory", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	stats := make([]Stats, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.statsDir(), name))
		if err != nil {
			continue
		}
		var st Stats
		if err := json.Unmarshal(data, &st); err != nil {
			continue
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// Summary is the aggregated view analyze_stats prints, over every
// session whose start_time falls within the requested period.
type Summary struct {
	Sessions      int
	TotalBlocks   uint64
	TotalRewards  uint64
	TotalUptime   uint64
	AverageHashPS float64
	CutoffTime    time.Time
}

// Analyze aggregates every persisted session started at or after
// now-period.
func (s *Store) Analyze(period time.Duration) (Summary, error) {
	all, err := s.historical()
	if err != nil {
		return Summary{}, err
	}
	cutoff := time.Now().Add(-period)

	summary := Summary{CutoffTime: cutoff}
	var hashRateSum float64
	for _, st := range all {
		if st.StartTime.Before(cutoff) {
			continue
		}
		summary.Sessions++
		summary.TotalBlocks += st.BlocksMined
		summary.TotalRewards += st.RewardsEarned
		summary.TotalUptime += st.UptimeSeconds
		hashRateSum += st.HashRate
	}
	if summary.Sessions > 0 {
		summary.AverageHashPS = hashRateSum / float64(summary.Sessions)
	}
	return summary, nil
}
