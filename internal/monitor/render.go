package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/docxology/nockit/internal/health"
)

// Renderer is whatever MonitorLoop feeds each tick's Report to.
type Renderer interface {
	Render(report health.Report) error
	Close() error
}

// TableRenderer prints a full grid each tick, matching the geth
// monitor's per-refresh full redraw.
type TableRenderer struct{ w io.Writer }

func NewTableRenderer(w io.Writer) *TableRenderer { return &TableRenderer{w: w} }

func (t *TableRenderer) Render(r health.Report) error {
	_, err := fmt.Fprintf(t.w,
		"%-20s %-10s %-10s %-10s %-10s %-8s %-10s\n%-20s %-10.1f %-10.1f %-10.1f %-10t %-8d %-10s\n",
		"TIMESTAMP", "CPU%", "MEM%", "DISK%", "RUNNING", "PEERS", "STATUS",
		r.Timestamp.Format(time.RFC3339),
		r.System.CPUPercent, r.System.MemoryPercent, r.System.DiskPercent,
		r.Nockchain.Running, r.Nockchain.PeerCount, r.Overall,
	)
	return err
}

func (t *TableRenderer) Close() error { return nil }

// JSONRenderer writes one JSON object per tick.
type JSONRenderer struct {
	w   io.Writer
	enc *json.Encoder
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w, enc: json.NewEncoder(w)}
}

func (j *JSONRenderer) Render(r health.Report) error { return j.enc.Encode(r) }
func (j *JSONRenderer) Close() error                 { return nil }

// CompactRenderer writes one status line per tick.
type CompactRenderer struct{ w io.Writer }

func NewCompactRenderer(w io.Writer) *CompactRenderer { return &CompactRenderer{w: w} }

func (c *CompactRenderer) Render(r health.Report) error {
	_, err := fmt.Fprintf(c.w, "[%s] %s cpu=%.1f%% mem=%.1f%% disk=%.1f%% peers=%d running=%t\n",
		r.Timestamp.Format(time.RFC3339), r.Overall, r.System.CPUPercent, r.System.MemoryPercent,
		r.System.DiskPercent, r.Nockchain.PeerCount, r.Nockchain.Running)
	return err
}

func (c *CompactRenderer) Close() error { return nil }
