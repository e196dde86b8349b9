package logstore

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const segmentTimeLayout = "20060102T150405Z"

// activePath is the canonical path of a stream's open segment, before
// it has ever been rotated. Once sealed it is renamed to a path
// carrying the rotation timestamp and a fresh file takes its place.
func activePath(logsDir, stream string) string {
	return filepath.Join(logsDir, stream+".log")
}

func rotatedPath(logsDir, stream string, at time.Time) string {
	return filepath.Join(logsDir, stream+"-"+at.UTC().Format(segmentTimeLayout)+".log")
}

var rotatedNameRe = regexp.MustCompile(`^(.+)-(\d{8}T\d{6}Z)\.log$`)

// listSegments returns every segment path belonging to stream (rotated
// segments followed by the active one, if present), ordered oldest to
// newest by the timestamp embedded in the filename; the active segment
// sorts last since it is always the most recently written.
func listSegments(logsDir, stream string) ([]string, error) {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type named struct {
		path string
		ts   string
	}
	var rotated []named
	activeFound := false

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == stream+".log" {
			activeFound = true
			continue
		}
		m := rotatedNameRe.FindStringSubmatch(name)
		if m == nil || m[1] != stream {
			continue
		}
		rotated = append(rotated, named{path: filepath.Join(logsDir, name), ts: m[2]})
	}

	sort.Slice(rotated, func(i, j int) bool { return rotated[i].ts < rotated[j].ts })

	paths := make([]string, 0, len(rotated)+1)
	for _, r := range rotated {
		paths = append(paths, r.path)
	}
	if activeFound {
		paths = append(paths, activePath(logsDir, stream))
	}
	return paths, nil
}

// streamNames lists every distinct stream with at least one segment
// under logsDir.
func streamNames(logsDir string) ([]string, error) {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".log") {
			base := strings.TrimSuffix(name, ".log")
			if m := rotatedNameRe.FindStringSubmatch(name); m != nil {
				base = m[1]
			}
			if !seen[base] {
				seen[base] = true
				names = append(names, base)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
