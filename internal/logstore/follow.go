package logstore

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docxology/nockit/internal/nockiterr"
)

// Follow returns a lazy, restartable sequence of records appended to
// stream's active segment after the call begins (spec §4.3). It
// terminates only when ctx is cancelled. Rotation of the active
// segment mid-follow is transparent: once the sealed file is fully
// drained, Follow reopens the freshly created active segment at its
// start.
func (s *Store) Follow(ctx context.Context, stream string) (<-chan Record, <-chan error) {
	out := make(chan Record)
	errc := make(chan error, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errc <- nockiterr.Wrap(nockiterr.KindIO, "start log watcher", err)
		close(out)
		close(errc)
		return out, errc
	}
	if err := os.MkdirAll(s.logsDir, 0o755); err != nil {
		watcher.Close()
		errc <- nockiterr.Wrap(nockiterr.KindIO, "create logs directory", err)
		close(out)
		close(errc)
		return out, errc
	}
	if err := watcher.Add(s.logsDir); err != nil {
		watcher.Close()
		errc <- nockiterr.Wrap(nockiterr.KindIO, "watch logs directory", err)
		close(out)
		close(errc)
		return out, errc
	}

	go func() {
		defer close(out)
		defer close(errc)
		defer watcher.Close()

		path := activePath(s.logsDir, stream)
		f, reader := openTailLocked(path)
		defer func() {
			if f != nil {
				f.Close()
			}
		}()

		drain := func() {
			if reader == nil {
				return
			}
			for {
				line, readErr := reader.ReadString('\n')
				if line != "" {
					if rec, ok := ParseLine(line); ok {
						select {
						case out <- rec:
						case <-ctx.Done():
							return
						}
					}
				}
				if readErr != nil {
					return
				}
			}
		}

		// Poll once at start in case the file already grew between
		// open and watch registration.
		drain()

		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					// The active segment was just (re)created, most
					// likely by a rotation. Finish reading the sealed
					// file through the handle still open on it, then
					// start reading the fresh one from its beginning.
					drain()
					if f != nil {
						f.Close()
					}
					f, reader = nil, nil
					if nf, err := os.Open(path); err == nil {
						f, reader = nf, bufio.NewReader(nf)
					}
					drain()
					continue
				}
				if event.Op&fsnotify.Write != 0 {
					if f == nil {
						f, reader = openTailLocked(path)
					}
					drain()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if err != nil {
					select {
					case errc <- nockiterr.Wrap(nockiterr.KindIO, "watch log stream "+stream, err):
					default:
					}
				}
			case <-ticker.C:
				if f == nil {
					f, reader = openTailLocked(path)
				}
				drain()
			}
		}
	}()

	return out, errc
}

func openTailLocked(path string) (*os.File, *bufio.Reader) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	f.Seek(0, io.SeekEnd)
	return f, bufio.NewReader(f)
}
