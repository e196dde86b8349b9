package loganalyzer

import (
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

// ParsePeriod resolves the fixed set of period shorthands the original
// crate's logging and mining stats commands both accepted
// (original_source/nockit/src/logging.rs and mining.rs: parse_time_period).
func ParsePeriod(period string) (time.Duration, error) {
	switch period {
	case "1h":
		return time.Hour, nil
	case "6h":
		return 6 * time.Hour, nil
	case "12h":
		return 12 * time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	case "1w":
		return 7 * 24 * time.Hour, nil
	case "1m":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, nockiterr.New(nockiterr.KindUser, "invalid time period "+period+": use 1h, 6h, 12h, 1d, 1w, or 1m")
	}
}
