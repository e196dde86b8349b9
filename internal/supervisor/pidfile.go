package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/docxology/nockit/internal/nockiterr"
)

// pidRecord is what a pidfile persists across CLI invocations. Since
// "mining start" and "mining stop" are separate OS processes, the
// process table Supervisor keeps in memory never survives past the
// invocation that built it; a later invocation locates the child by
// reading its PID back off disk instead. Grounded on the original
// crate's MiningProcess/save_mining_process/load_mining_process
// (original_source/nockit/src/mining.rs).
type pidRecord struct {
	pid       int
	startedAt time.Time
}

func (s *Supervisor) pidFilePath(stream string) string {
	return filepath.Join(s.runDir, stream+".pid")
}

func (s *Supervisor) writePIDFile(stream string, rec pidRecord) error {
	if err := os.MkdirAll(s.runDir, 0o755); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create run directory", err)
	}
	contents := fmt.Sprintf("%d\n%d\n", rec.pid, rec.startedAt.Unix())
	if err := os.WriteFile(s.pidFilePath(stream), []byte(contents), 0o644); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "write pidfile for "+stream, err)
	}
	return nil
}

func (s *Supervisor) readPIDFile(stream string) (pidRecord, error) {
	data, err := os.ReadFile(s.pidFilePath(stream))
	if err != nil {
		return pidRecord{}, nockiterr.New(nockiterr.KindProcess, "no supervised process for "+stream)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return pidRecord{}, nockiterr.New(nockiterr.KindProcess, "malformed pidfile for "+stream)
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return pidRecord{}, nockiterr.Wrap(nockiterr.KindProcess, "malformed pidfile for "+stream, err)
	}
	rec := pidRecord{pid: pid}
	if len(fields) > 1 {
		if sec, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
			rec.startedAt = time.Unix(sec, 0)
		}
	}
	return rec, nil
}

func (s *Supervisor) removePIDFile(stream string) {
	os.Remove(s.pidFilePath(stream)) // best-effort: a missing file is not an error
}

// processAlive reports whether pid names a live process, using the
// signal-0 probe rather than delivering an actual signal.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// terminatePID sends SIGTERM to pid, waits up to deadline for it to
// exit, then escalates to SIGKILL if it is still alive.
func terminatePID(pid int, deadline time.Duration) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return nockiterr.Wrap(nockiterr.KindProcess, "locate process", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if !processAlive(pid) {
			return nil
		}
		return nockiterr.Wrap(nockiterr.KindProcess, "signal process", err)
	}

	giveUpAt := time.Now().Add(deadline)
	for time.Now().Before(giveUpAt) {
		if !processAlive(pid) {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !processAlive(pid) {
		return nil
	}
	if err := proc.Kill(); err != nil && processAlive(pid) {
		return nockiterr.Wrap(nockiterr.KindProcess, "force-kill process", err)
	}
	return nil
}
