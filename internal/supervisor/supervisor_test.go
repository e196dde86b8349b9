package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docxology/nockit/internal/logstore"
)

func newTestSupervisor(t *testing.T) (*Supervisor, *logstore.Store) {
	t.Helper()
	dir := t.TempDir()
	store := logstore.New(dir, "compact", 100, 7)
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func TestStartDrainsOutputAndReachesStopped(t *testing.T) {
	sup, store := newTestSupervisor(t)

	script := "echo 'peer connected 1.2.3.4'; echo 'mining-on started' 1>&2; sleep 0.1"
	require.NoError(t, sup.Start("nockchain", "sh", []string{"-c", script}, nil))

	deadline := time.Now().Add(3 * time.Second)
	for {
		status, ok := sup.Status("nockchain")
		require.True(t, ok)
		if status.State == StateStopped || status.State == StateCrashed {
			require.Equal(t, StateStopped, status.State)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("process did not reach a terminal state in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	records, err := store.TailAll("nockchain")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 2)
}

func TestStartRejectsSecondConcurrentRun(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	require.NoError(t, sup.Start("miner", "sh", []string{"-c", "sleep 1"}, nil))
	err := sup.Start("miner", "sh", []string{"-c", "sleep 1"}, nil)
	require.Error(t, err)
	require.NoError(t, sup.Stop("miner"))
}

func TestStopGracefullyTerminatesRunningChild(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	require.NoError(t, sup.Start("nockchain", "sh", []string{"-c", "trap 'exit 0' TERM; while true; do sleep 0.05; done"}, nil))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, sup.Stop("nockchain"))

	status, ok := sup.Status("nockchain")
	require.True(t, ok)
	require.Equal(t, StateStopped, status.State)
}

func TestCrashedProcessCarriesExitCodeAndStderrTail(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	require.NoError(t, sup.Start("miner", "sh", []string{"-c", "echo 'connection refused' 1>&2; exit 7"}, nil))

	deadline := time.Now().Add(3 * time.Second)
	for {
		status, ok := sup.Status("miner")
		require.True(t, ok)
		if status.State == StateCrashed {
			require.Equal(t, 7, status.ExitCode)
			require.Contains(t, status.StderrTail, "connection refused")
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("process did not crash in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStopFindsProcessStartedByAnotherSupervisorInstance(t *testing.T) {
	dir := t.TempDir()
	store := logstore.New(dir, "compact", 100, 7)
	t.Cleanup(func() { store.Close() })

	starter := New(store)
	require.NoError(t, starter.Start("nockchain", "sh", []string{"-c", "trap 'exit 0' TERM; while true; do sleep 0.05; done"}, nil))
	time.Sleep(50 * time.Millisecond)

	// A fresh Supervisor over the same config directory models a
	// separate "mining stop" invocation: its in-memory table is empty,
	// so it must fall back to the pidfile the starter's Start left
	// behind.
	stopper := New(store)
	status, found := stopper.Status("nockchain")
	require.True(t, found)
	require.Equal(t, StateRunning, status.State)
	require.NotZero(t, status.PID)

	require.NoError(t, stopper.Stop("nockchain"))

	deadline := time.Now().Add(3 * time.Second)
	for {
		startedStatus, ok := starter.Status("nockchain")
		require.True(t, ok)
		if startedStatus.State == StateStopped || startedStatus.State == StateCrashed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("starter never observed the child's exit")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, found = stopper.Status("nockchain")
	require.False(t, found)
}

func TestStatusReportsCrashedForStalePIDFile(t *testing.T) {
	dir := t.TempDir()
	store := logstore.New(dir, "compact", 100, 7)
	t.Cleanup(func() { store.Close() })

	sup := New(store)
	require.NoError(t, sup.writePIDFile("miner", pidRecord{pid: 999999, startedAt: time.Now()}))

	status, found := sup.Status("miner")
	require.True(t, found)
	require.Equal(t, StateCrashed, status.State)

	_, found = sup.Status("miner")
	require.False(t, found)
}

func TestStopAllStopsEveryRunningChild(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	require.NoError(t, sup.Start("nockchain", "sh", []string{"-c", "trap 'exit 0' TERM; while true; do sleep 0.05; done"}, nil))
	require.NoError(t, sup.Start("miner", "sh", []string{"-c", "trap 'exit 0' TERM; while true; do sleep 0.05; done"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sup.StopAll(ctx)

	for _, stream := range []string{"nockchain", "miner"} {
		status, ok := sup.Status(stream)
		require.True(t, ok)
		require.Equal(t, StateStopped, status.State)
	}
}
