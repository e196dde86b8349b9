package supervisor

import (
	"strings"

	"github.com/docxology/nockit/internal/logstore"
)

// classifyLine picks a LogRecord component for one line of a child's
// stdout/stderr, using the same first-token heuristic spec §4.5 calls
// for ("a small classifier ... based on the line's first tokens").
func classifyLine(line string) string {
	lower := strings.ToLower(strings.TrimSpace(line))
	switch {
	case strings.HasPrefix(lower, "mining"), strings.HasPrefix(lower, "hash rate"), strings.HasPrefix(lower, "block mined"):
		return "mining"
	case strings.HasPrefix(lower, "peer"), strings.HasPrefix(lower, "dial"), strings.HasPrefix(lower, "connection"), strings.HasPrefix(lower, "bootstrap"):
		return "network"
	case strings.HasPrefix(lower, "wallet"), strings.HasPrefix(lower, "balance"), strings.HasPrefix(lower, "keypair"):
		return "wallet"
	default:
		return "other"
	}
}

// classifyLevel makes a best-effort level guess from common node log
// conventions ("ERROR", "WARN", ...) appearing at the start of a line,
// defaulting to info.
func classifyLevel(line string) logstore.Level {
	upper := strings.ToUpper(strings.TrimSpace(line))
	switch {
	case strings.Contains(upper[:min(len(upper), 12)], "ERROR"):
		return logstore.LevelError
	case strings.Contains(upper[:min(len(upper), 12)], "WARN"):
		return logstore.LevelWarn
	case strings.Contains(upper[:min(len(upper), 12)], "DEBUG"):
		return logstore.LevelDebug
	case strings.Contains(upper[:min(len(upper), 12)], "TRACE"):
		return logstore.LevelTrace
	default:
		return logstore.LevelInfo
	}
}
