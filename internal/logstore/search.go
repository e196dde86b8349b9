package logstore

import (
	"context"
	"regexp"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

// TimeRange restricts Search to records timestamped within [Start, End).
// A zero value on either end means unbounded on that side.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) contains(ts time.Time) bool {
	if !r.Start.IsZero() && ts.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !ts.Before(r.End) {
		return false
	}
	return true
}

// Search returns a lazy sequence of records in stream whose message
// matches pattern, restricted to rng and levels (nil/empty accepts
// every level). It scans every segment once, O(N) over the records in
// range, with no index assumed (spec §4.3).
func (s *Store) Search(ctx context.Context, stream, pattern string, rng TimeRange, levels []Level) (<-chan Record, <-chan error) {
	out := make(chan Record)
	errc := make(chan error, 1)

	re, err := regexp.Compile(pattern)
	if err != nil {
		errc <- nockiterr.Wrap(nockiterr.KindParsing, "invalid search pattern", err)
		close(out)
		close(errc)
		return out, errc
	}

	allowed := map[Level]bool{}
	for _, l := range levels {
		allowed[l] = true
	}

	go func() {
		defer close(out)
		defer close(errc)

		records, err := s.readAll(stream)
		if err != nil {
			errc <- err
			return
		}
		for _, rec := range records {
			if !rng.contains(rec.Timestamp) {
				continue
			}
			if len(allowed) > 0 && !allowed[rec.Level] {
				continue
			}
			if !re.MatchString(rec.Message) {
				continue
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errc
}
