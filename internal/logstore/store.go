package logstore

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

// Store is the append-only, per-stream segmented log described in
// spec §4.3. It owns every file under <configDir>/logs; readers open
// segments independently of the writer's mutex, matching the
// read/write split required by §5's shared-resource policy.
type Store struct {
	logsDir       string
	format        string
	rotationBytes int64
	retention     time.Duration

	mu      sync.Mutex
	active  map[string]*activeSegment
	unparsed int64
}

type activeSegment struct {
	file *os.File
	size int64
}

// New builds a Store rooted at <configDir>/logs. format is one of
// pretty/compact/json (spec §3's logging.format); rotationMB and
// retentionDays come straight from LoggingConfig.
func New(configDir, format string, rotationMB uint64, retentionDays uint32) *Store {
	if rotationMB == 0 {
		rotationMB = 100
	}
	return &Store{
		logsDir:       filepath.Join(configDir, "logs"),
		format:        format,
		rotationBytes: int64(rotationMB) * 1024 * 1024,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		active:        map[string]*activeSegment{},
	}
}

// LogsDir is the directory every segment lives under.
func (s *Store) LogsDir() string { return s.logsDir }

// UnparsedCount reports how many log lines have failed to parse across
// every tail/search/export pass so far. Never surfaced as an error -
// it is a diagnostic channel per spec §4.3.
func (s *Store) UnparsedCount() int64 { return atomic.LoadInt64(&s.unparsed) }

// Append writes one record to stream's active segment, rotating first
// if writing it would cross the configured size threshold. Rotation
// and the write itself happen under the same lock, so a rotation never
// interleaves with the middle of a write (spec §5).
func (s *Store) Append(stream string, r Record) error {
	line := FormatLine(r, s.format) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()

	seg, err := s.openActiveLocked(stream)
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "open log segment for "+stream, err)
	}

	if seg.size > 0 && seg.size+int64(len(line)) > s.rotationBytes {
		if err := s.rotateLocked(stream, seg); err != nil {
			return err
		}
		seg, err = s.openActiveLocked(stream)
		if err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "reopen log segment for "+stream, err)
		}
	}

	n, err := seg.file.WriteString(line)
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write log segment for "+stream, err)
	}
	seg.size += int64(n)
	return nil
}

func (s *Store) openActiveLocked(stream string) (*activeSegment, error) {
	if seg, ok := s.active[stream]; ok {
		return seg, nil
	}
	if err := os.MkdirAll(s.logsDir, 0o755); err != nil {
		return nil, err
	}
	path := activePath(s.logsDir, stream)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	seg := &activeSegment{file: f, size: info.Size()}
	s.active[stream] = seg
	return seg, nil
}

// rotateLocked seals the current active segment by renaming it to a
// timestamped path and drops it from the active map so the next
// openActiveLocked call starts a fresh file. Caller holds s.mu.
func (s *Store) rotateLocked(stream string, seg *activeSegment) error {
	if err := seg.file.Close(); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "close rotating segment for "+stream, err)
	}
	delete(s.active, stream)

	oldPath := activePath(s.logsDir, stream)
	at := time.Now()
	newPath := rotatedPath(s.logsDir, stream, at)
	// Rotated names have one-second resolution; step forward past any
	// name already taken so a second rotation within the same second
	// never renames over an earlier sealed segment.
	for {
		if _, err := os.Stat(newPath); err != nil {
			break
		}
		at = at.Add(time.Second)
		newPath = rotatedPath(s.logsDir, stream, at)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "rotate segment for "+stream, err)
	}
	s.reapExpiredLocked(stream)
	return nil
}

// reapExpiredLocked deletes rotated segments whose modification time
// is older than the retention horizon. Best-effort: a removal failure
// is ignored here and will be retried on the next rotation or an
// explicit Clean call.
func (s *Store) reapExpiredLocked(stream string) {
	if s.retention <= 0 {
		return
	}
	paths, err := listSegments(s.logsDir, stream)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-s.retention)
	for _, p := range paths {
		if p == activePath(s.logsDir, stream) {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(p)
		}
	}
}

// Clean removes rotated segments across every stream whose age exceeds
// days (0 keeps the configured retention). It is the explicit
// counterpart to the rotation-time reap (spec §4.3's "explicit `clean`
// request").
func (s *Store) Clean(days uint32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	retention := s.retention
	if days > 0 {
		retention = time.Duration(days) * 24 * time.Hour
	}
	names, err := streamNames(s.logsDir)
	if err != nil {
		return 0, nockiterr.Wrap(nockiterr.KindIO, "list log streams", err)
	}
	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, stream := range names {
		paths, err := listSegments(s.logsDir, stream)
		if err != nil {
			continue
		}
		active := activePath(s.logsDir, stream)
		for _, p := range paths {
			if p == active {
				continue
			}
			info, err := os.Stat(p)
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if os.Remove(p) == nil {
					removed++
				}
			}
		}
	}
	return removed, nil
}

// Close flushes and closes every open active segment. Safe to call
// once during process shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for stream, seg := range s.active {
		if err := seg.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.active, stream)
	}
	return firstErr
}

// readAll reads every record across stream's segments in chronological
// order, skipping and counting unparseable lines.
func (s *Store) readAll(stream string) ([]Record, error) {
	paths, err := listSegments(s.logsDir, stream)
	if err != nil {
		return nil, nockiterr.Wrap(nockiterr.KindIO, "list segments for "+stream, err)
	}
	var records []Record
	for _, p := range paths {
		recs, err := s.readSegment(p)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	SortRecords(records)
	return records, nil
}

func (s *Store) readSegment(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nockiterr.Wrap(nockiterr.KindIO, "read segment "+path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rec, ok := ParseLine(scanner.Text())
		if !ok {
			atomic.AddInt64(&s.unparsed, 1)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Tail returns the last n records of stream in timestamp order. n == 0
// returns the empty sequence, per spec's `--lines 0` boundary case; a
// negative n returns every record, same as TailAll.
func (s *Store) Tail(stream string, n int) ([]Record, error) {
	records, err := s.readAll(stream)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if n < 0 || n >= len(records) {
		return records, nil
	}
	return records[len(records)-n:], nil
}

// TailAll returns every record of stream in timestamp order. Callers
// that want "give me everything" should use this rather than
// overloading Tail's n with zero.
func (s *Store) TailAll(stream string) ([]Record, error) {
	return s.readAll(stream)
}

// Streams lists every stream with at least one segment on disk.
func (s *Store) Streams() ([]string, error) {
	return streamNames(s.logsDir)
}
