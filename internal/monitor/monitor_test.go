package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docxology/nockit/internal/logstore"
	"github.com/docxology/nockit/internal/supervisor"
	"github.com/docxology/nockit/internal/sysprobe"
)

func newTestCollector(t *testing.T) (*Collector, *logstore.Store) {
	t.Helper()
	dir := t.TempDir()
	store := logstore.New(dir, "compact", 100, 7)
	t.Cleanup(func() { store.Close() })
	sup := supervisor.New(store)
	return &Collector{
		Probe:         sysprobe.New(dir),
		Supervisor:    sup,
		Store:         store,
		ExpectedToRun: false,
		PeerCount:     func() int { return 5 },
	}, store
}

func TestCollectAppendsToMonitorStream(t *testing.T) {
	c, store := newTestCollector(t)
	report := c.Collect(context.Background())
	require.NotEmpty(t, report.Overall)

	records, err := store.TailAll(MonitorStream)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "monitor", records[0].Component)
}

func TestCollectCountsRecentErrors(t *testing.T) {
	c, store := newTestCollector(t)
	require.NoError(t, store.Append(NockchainStream, logstore.NewRecord(logstore.LevelError, "network", "dial failed", nil)))
	require.NoError(t, store.Append(NockchainStream, logstore.NewRecord(logstore.LevelInfo, "network", "peer connected", nil)))

	report := c.Collect(context.Background())
	require.Equal(t, uint64(1), report.Nockchain.ErrorsLastHour)
}

func TestLoopCollectRunsExactlyOnce(t *testing.T) {
	c, _ := newTestCollector(t)
	var buf bytes.Buffer
	renderer := NewCompactRenderer(&buf)
	loop := NewLoop(c, renderer, time.Second)

	require.NoError(t, loop.Collect(context.Background()))
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestLoopRunStopsAtNextTickBoundaryOnCancel(t *testing.T) {
	c, _ := newTestCollector(t)
	var buf bytes.Buffer
	renderer := NewCompactRenderer(&buf)
	loop := NewLoop(c, renderer, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	require.Greater(t, bytes.Count(buf.Bytes(), []byte("\n")), 0)
}

func TestLoopRunTicksWithinToleranceOfInterval(t *testing.T) {
	c, _ := newTestCollector(t)
	var buf bytes.Buffer
	renderer := NewCompactRenderer(&buf)
	interval := 5 * time.Millisecond
	loop := NewLoop(c, renderer, interval)

	const ticks = 100
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	count := 0
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	for count < ticks {
		time.Sleep(interval / 2)
		count = bytes.Count(buf.Bytes(), []byte("\n"))
	}
	elapsed := time.Since(start)
	cancel()
	<-done

	perTick := elapsed / time.Duration(count)
	require.GreaterOrEqual(t, perTick, interval*9/10)
	require.LessOrEqual(t, perTick, interval*3)
}

func TestJSONRendererEmitsOneObjectPerTick(t *testing.T) {
	c, _ := newTestCollector(t)
	var buf bytes.Buffer
	renderer := NewJSONRenderer(&buf)
	report := c.Collect(context.Background())
	require.NoError(t, renderer.Render(report))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
}

func TestTableRendererWritesHeaderAndRow(t *testing.T) {
	c, _ := newTestCollector(t)
	var buf bytes.Buffer
	renderer := NewTableRenderer(&buf)
	report := c.Collect(context.Background())
	require.NoError(t, renderer.Render(report))
	require.Contains(t, buf.String(), "TIMESTAMP")
}
