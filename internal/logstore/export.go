package logstore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

// Export formats supported by Export, mirroring the original crate's
// export_json/export_csv/export_text
// (original_source/nockit/src/logging.rs).
const (
	ExportJSON = "json"
	ExportCSV  = "csv"
	ExportText = "txt"
)

type exportEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

// Export reads every stream (or just stream, if non-empty), sorts the
// combined records by timestamp, and writes them to path in format.
func (s *Store) Export(stream, format, path string) (int, error) {
	var records []Record
	if stream != "" {
		recs, err := s.readAll(stream)
		if err != nil {
			return 0, err
		}
		records = recs
	} else {
		streams, err := s.Streams()
		if err != nil {
			return 0, err
		}
		for _, name := range streams {
			recs, err := s.readAll(name)
			if err != nil {
				return 0, err
			}
			records = append(records, recs...)
		}
	}
	SortRecords(records)

	var err error
	switch format {
	case ExportJSON:
		err = exportJSON(records, path)
	case ExportCSV:
		err = exportCSV(records, path)
	case ExportText:
		err = exportTextFile(records, path)
	default:
		return 0, nockiterr.New(nockiterr.KindUser, "unsupported export format: "+format)
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func toEntries(records []Record) []exportEntry {
	entries := make([]exportEntry, len(records))
	for i, r := range records {
		entries[i] = exportEntry{
			Timestamp: r.Timestamp.Format(time.RFC3339Nano),
			Level:     string(r.Level),
			Component: r.Component,
			Message:   r.Message,
		}
	}
	return entries
}

func exportJSON(records []Record, path string) error {
	data, err := json.MarshalIndent(toEntries(records), "", "  ")
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "serialize log export", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write log export "+path, err)
	}
	return nil
}

func exportCSV(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create log export "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "level", "component", "message"}); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write log export header", err)
	}
	for _, r := range records {
		row := []string{r.Timestamp.Format(time.RFC3339Nano), string(r.Level), r.Component, r.Message}
		if err := w.Write(row); err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "write log export row", err)
		}
	}
	w.Flush()
	return w.Error()
}

func exportTextFile(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create log export "+path, err)
	}
	defer f.Close()

	for _, r := range records {
		line := fmt.Sprintf("%s %s %s: %s\n", r.Timestamp.Format(time.RFC3339Nano), string(r.Level), r.Component, r.Message)
		if _, err := f.WriteString(line); err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "write log export line", err)
		}
	}
	return nil
}
