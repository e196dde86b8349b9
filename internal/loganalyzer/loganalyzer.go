// Package loganalyzer implements LogAnalyzer: classification,
// error-pattern digests, and time-series extraction over LogStore records (spec
// §4.4). Every analysis here is a pure function of the record
// sequence it is given - the same input always yields the same
// output, which is what makes these safe to unit test deterministically.
package loganalyzer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docxology/nockit/internal/logstore"
)

// LevelHistogram counts records per level.
type LevelHistogram map[logstore.Level]int

// ComponentHistogram counts records per inferred component tag.
type ComponentHistogram map[string]int

// componentHints is the fixed prefix table spec §4.4 calls for:
// "component is inferred by matching message prefix against a fixed
// table of component hints". Matching is first-hit in table order, so
// more specific hints are listed before their broader siblings.
var componentHints = []struct {
	prefix    string
	component string
}{
	{"mining-on", "mining"},
	{"mining started", "mining"},
	{"mining stopped", "mining"},
	{"hash rate", "mining"},
	{"block mined", "mining"},
	{"peer", "network"},
	{"connection", "network"},
	{"dial", "network"},
	{"bootstrap", "network"},
	{"balance", "wallet"},
	{"wallet", "wallet"},
	{"keypair", "wallet"},
	{"backup", "wallet"},
	{"cpu", "system"},
	{"memory", "system"},
	{"disk", "system"},
}

// ClassifyComponent infers a component tag from a message's prefix,
// falling back to the record's own Component field, then "other".
func ClassifyComponent(rec logstore.Record) string {
	lower := strings.ToLower(rec.Message)
	for _, hint := range componentHints {
		if strings.HasPrefix(lower, hint.prefix) {
			return hint.component
		}
	}
	if rec.Component != "" {
		return rec.Component
	}
	return "other"
}

// LevelCounts builds a LevelHistogram over records.
func LevelCounts(records []logstore.Record) LevelHistogram {
	h := LevelHistogram{}
	for _, r := range records {
		h[r.Level]++
	}
	return h
}

// ComponentCounts builds a ComponentHistogram over records.
func ComponentCounts(records []logstore.Record) ComponentHistogram {
	h := ComponentHistogram{}
	for _, r := range records {
		h[ClassifyComponent(r)]++
	}
	return h
}

var (
	numericLiteralRe = regexp.MustCompile(`\d+(\.\d+)?`)
	rfc3339LikeRe    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?`)
)

// NormalizeErrorMessage strips timestamps and numeric literals from an
// error message so that structurally identical errors with different
// values (ports, heights, durations) collapse into the same bucket,
// per spec §4.4's ErrorPatternDigest.
func NormalizeErrorMessage(msg string) string {
	out := rfc3339LikeRe.ReplaceAllString(msg, "<ts>")
	out = numericLiteralRe.ReplaceAllString(out, "<n>")
	return strings.TrimSpace(out)
}

// ErrorPatternDigest maps a normalized error substring to how many
// times it occurred.
type ErrorPatternDigest map[string]int

// ErrorPatterns builds an ErrorPatternDigest over the error-level
// records in the sequence.
func ErrorPatterns(records []logstore.Record) ErrorPatternDigest {
	d := ErrorPatternDigest{}
	for _, r := range records {
		if r.Level != logstore.LevelError {
			continue
		}
		d[NormalizeErrorMessage(r.Message)]++
	}
	return d
}

// MetricPoint is one sample in a MetricSeries.
type MetricPoint struct {
	Timestamp time.Time
	Value     float64
}

// MetricSeries is a fixed-step bucketed time series for one recognized
// metric pattern (spec §4.4: "hash rate X H/s", "memory XMB", "cpu X%").
type MetricSeries struct {
	Name   string
	Bucket time.Duration
	Points []MetricPoint
}

var metricPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"hash_rate_hps", regexp.MustCompile(`(?i)hash rate[:\s]+([0-9]+(?:\.[0-9]+)?)\s*H/s`)},
	{"memory_mb", regexp.MustCompile(`(?i)memory[:\s]+([0-9]+(?:\.[0-9]+)?)\s*MB`)},
	{"cpu_pct", regexp.MustCompile(`(?i)cpu[:\s]+([0-9]+(?:\.[0-9]+)?)\s*%`)},
}

// ExtractMetricSeries scans records for the fixed set of recognized
// metric patterns and buckets matches into fixed-step series.
func ExtractMetricSeries(records []logstore.Record, bucket time.Duration) []MetricSeries {
	if bucket <= 0 {
		bucket = time.Minute
	}
	raw := map[string][]MetricPoint{}
	for _, r := range records {
		for _, pat := range metricPatterns {
			m := pat.re.FindStringSubmatch(r.Message)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			raw[pat.name] = append(raw[pat.name], MetricPoint{Timestamp: r.Timestamp, Value: v})
		}
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]MetricSeries, 0, len(names))
	for _, name := range names {
		series = append(series, MetricSeries{
			Name:   name,
			Bucket: bucket,
			Points: bucketPoints(raw[name], bucket),
		})
	}
	return series
}

// bucketPoints averages samples falling into the same fixed-width
// bucket, keyed by bucket start.
func bucketPoints(points []MetricPoint, bucket time.Duration) []MetricPoint {
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	type acc struct {
		sum   float64
		count int
		start time.Time
	}
	buckets := map[int64]*acc{}
	var order []int64

	for _, p := range points {
		key := p.Timestamp.Truncate(bucket).Unix()
		a, ok := buckets[key]
		if !ok {
			a = &acc{start: p.Timestamp.Truncate(bucket)}
			buckets[key] = a
			order = append(order, key)
		}
		a.sum += p.Value
		a.count++
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]MetricPoint, 0, len(order))
	for _, key := range order {
		a := buckets[key]
		out = append(out, MetricPoint{Timestamp: a.start, Value: a.sum / float64(a.count)})
	}
	return out
}

// Summary bundles every analysis over one record sequence, matching
// what `logs analyze` reports in one pass.
type Summary struct {
	Levels     LevelHistogram
	Components ComponentHistogram
	Errors     ErrorPatternDigest
	Metrics    []MetricSeries
}

// Analyze runs every analysis over records in one call.
func Analyze(records []logstore.Record, bucket time.Duration) Summary {
	return Summary{
		Levels:     LevelCounts(records),
		Components: ComponentCounts(records),
		Errors:     ErrorPatterns(records),
		Metrics:    ExtractMetricSeries(records, bucket),
	}
}
