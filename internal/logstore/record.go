// Package logstore implements LogStore: an append-only, per-stream
// segmented log (spec §3/§4.3). It is the exclusive owner of log
// segment files under a configuration directory's logs/ subdirectory;
// no other component writes there.
package logstore

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Level mirrors the five levels spec.md's LogRecord allows.
type Level string

const (
	LevelTrace Level = "trace"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelTrace: 0,
	LevelDebug: 1,
	LevelInfo:  2,
	LevelWarn:  3,
	LevelError: 4,
}

// ParseLevel normalizes s to a known Level, defaulting to LevelInfo for
// anything unrecognized.
func ParseLevel(s string) Level {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; ok {
		return l
	}
	return LevelInfo
}

var sequenceCounter uint64

// nextSequence hands out a monotonically increasing per-process
// sequence number, used to break timestamp ties within a stream
// (spec §3: "LogRecord... ordered... then by a monotonically
// increasing per-process sequence number").
func nextSequence() uint64 {
	return atomic.AddUint64(&sequenceCounter, 1)
}

// Record is a single structured log entry (spec §3's LogRecord).
type Record struct {
	Timestamp time.Time
	Level     Level
	Component string
	Message   string
	Fields    map[string]string
	Sequence  uint64
}

// NewRecord builds a Record stamped with the current time and the next
// sequence number.
func NewRecord(level Level, component, message string, fields map[string]string) Record {
	if fields == nil {
		fields = map[string]string{}
	}
	return Record{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Component: component,
		Message:   message,
		Fields:    fields,
		Sequence:  nextSequence(),
	}
}

// Before orders records by timestamp, then sequence, matching the
// spec's tie-break rule.
func (r Record) Before(other Record) bool {
	if !r.Timestamp.Equal(other.Timestamp) {
		return r.Timestamp.Before(other.Timestamp)
	}
	return r.Sequence < other.Sequence
}

// SortRecords orders records in place by (timestamp, sequence).
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Before(records[j]) })
}

// needsQuoting reports whether a field value must be quoted in the
// compact/pretty line formats (spec §6: "quote values containing
// whitespace").
func needsQuoting(s string) bool {
	return strings.ContainsAny(s, " \t\"")
}

func quoteIfNeeded(s string) string {
	if !needsQuoting(s) {
		return s
	}
	return strconv.Quote(s)
}

// FormatLine renders r as one line in the requested textual format.
// "json" produces a single JSON object; "pretty" and "compact" both
// produce the `TIMESTAMP LEVEL [COMPONENT] MESSAGE (k=v ...)` shape
// from spec §6 - "compact" omits the field parenthetical when empty
// and never pads columns, "pretty" is kept identical since no
// additional alignment is specified.
func FormatLine(r Record, format string) string {
	if format == "json" {
		return formatJSON(r)
	}
	return formatText(r)
}

func formatText(r Record) string {
	var b strings.Builder
	b.WriteString(r.Timestamp.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(string(r.Level)))
	b.WriteString(" [")
	b.WriteString(r.Component)
	b.WriteString("] ")
	b.WriteString(r.Message)
	if len(r.Fields) > 0 {
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(quoteIfNeeded(r.Fields[k]))
		}
		b.WriteByte(')')
	}
	return b.String()
}

func formatJSON(r Record) string {
	var b strings.Builder
	b.WriteByte('{')
	fmt.Fprintf(&b, "%q:%q,", "ts", r.Timestamp.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "%q:%q,", "level", string(r.Level))
	fmt.Fprintf(&b, "%q:%q,", "component", r.Component)
	fmt.Fprintf(&b, "%q:%q,", "message", r.Message)
	b.WriteString(`"fields":{`)
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%q", k, r.Fields[k])
	}
	b.WriteString("}}")
	return b.String()
}

var (
	textLineRe = regexp.MustCompile(`^(\S+) (\S+) \[([^\]]*)\] (.*)$`)
	fieldsRe   = regexp.MustCompile(`\(([^)]*)\)$`)
	jsonTsRe   = regexp.MustCompile(`"ts"\s*:\s*"([^"]*)"`)
	jsonLvlRe  = regexp.MustCompile(`"level"\s*:\s*"([^"]*)"`)
	jsonCompRe = regexp.MustCompile(`"component"\s*:\s*"([^"]*)"`)
	jsonMsgRe  = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// ParseLine attempts to parse a single log line written by FormatLine,
// in either the JSON or the compact/pretty text shape. Unparseable
// lines return ok == false; callers count these rather than treating
// them as an error (spec §4.3: "records that cannot be parsed are
// skipped with a counter incremented").
func ParseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Record{}, false
	}
	if strings.HasPrefix(line, "{") {
		return parseJSONLine(line)
	}
	return parseTextLine(line)
}

func parseTextLine(line string) (Record, bool) {
	m := textLineRe.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, m[1])
	if err != nil {
		return Record{}, false
	}
	rest := m[4]
	fields := map[string]string{}
	if fm := fieldsRe.FindStringSubmatch(rest); fm != nil {
		rest = strings.TrimSpace(strings.TrimSuffix(rest, fm[0]))
		for _, tok := range splitFields(fm[1]) {
			kv := strings.SplitN(tok, "=", 2)
			if len(kv) != 2 {
				continue
			}
			val := kv[1]
			if unquoted, err := strconv.Unquote(val); err == nil {
				val = unquoted
			}
			fields[kv[0]] = val
		}
	}
	return Record{
		Timestamp: ts,
		Level:     ParseLevel(m[2]),
		Component: m[3],
		Message:   rest,
		Fields:    fields,
	}, true
}

// splitFields splits a "k=v k2=\"v with space\"" token list on
// unquoted spaces.
func splitFields(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && (i == 0 || s[i-1] != '\\'):
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ' ' && !inQuote:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func parseJSONLine(line string) (Record, bool) {
	tsm := jsonTsRe.FindStringSubmatch(line)
	lvlm := jsonLvlRe.FindStringSubmatch(line)
	compm := jsonCompRe.FindStringSubmatch(line)
	msgm := jsonMsgRe.FindStringSubmatch(line)
	if tsm == nil || lvlm == nil || msgm == nil {
		return Record{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, tsm[1])
	if err != nil {
		return Record{}, false
	}
	component := ""
	if compm != nil {
		component = compm[1]
	}
	msg := msgm[1]
	if unquoted, err := strconv.Unquote(`"` + msg + `"`); err == nil {
		msg = unquoted
	}
	return Record{
		Timestamp: ts,
		Level:     ParseLevel(lvlm[1]),
		Component: component,
		Message:   msg,
		Fields:    map[string]string{},
	}, true
}
