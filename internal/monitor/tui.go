package monitor

import (
	"context"
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/docxology/nockit/internal/health"
)

// ringSize bounds the CPU/memory history kept by TUIRenderer, per spec
// §4.8's "300-sample in-memory ring per series".
const ringSize = 300

// logBufferSize bounds the in-memory log panel.
const logBufferSize = 200

// TUIRenderer is the full-screen terminal renderer built on
// gizak/termui/v3, generalizing the grid-of-charts layout the
// teacher's geth monitor builds on the older v1 termui API
// (ethereum-go-ethereum/cmd/geth/monitorcmd.go) to the maintained
// go-modules release.
type TUIRenderer struct {
	cancel context.CancelFunc

	cpuHistory []float64
	memHistory []float64
	logLines   []string

	cpuPlot   *widgets.Plot
	memPlot   *widgets.Plot
	statusBox *widgets.Paragraph
	logList   *widgets.List
	grid      *ui.Grid
}

// NewTUIRenderer initializes the terminal and starts a background
// keystroke listener that calls cancel when 'q' or Ctrl-C is pressed,
// requesting shutdown at the next tick boundary (spec §4.8).
func NewTUIRenderer(cancel context.CancelFunc) (*TUIRenderer, error) {
	if err := ui.Init(); err != nil {
		return nil, err
	}

	cpuPlot := widgets.NewPlot()
	cpuPlot.Title = "CPU %"
	cpuPlot.Data = [][]float64{{0}}
	cpuPlot.LineColors = []ui.Color{ui.ColorCyan}

	memPlot := widgets.NewPlot()
	memPlot.Title = "Memory %"
	memPlot.Data = [][]float64{{0}}
	memPlot.LineColors = []ui.Color{ui.ColorGreen}

	statusBox := widgets.NewParagraph()
	statusBox.Title = "Status"
	statusBox.Text = "collecting..."

	logList := widgets.NewList()
	logList.Title = "Recent Activity"

	grid := ui.NewGrid()
	width, height := ui.TerminalDimensions()
	grid.SetRect(0, 0, width, height)
	grid.Set(
		ui.NewRow(1.0/3,
			ui.NewCol(1.0/2, cpuPlot),
			ui.NewCol(1.0/2, memPlot),
		),
		ui.NewRow(1.0/6, ui.NewCol(1.0, statusBox)),
		ui.NewRow(1.0/2, ui.NewCol(1.0, logList)),
	)

	t := &TUIRenderer{
		cancel:    cancel,
		cpuPlot:   cpuPlot,
		memPlot:   memPlot,
		statusBox: statusBox,
		logList:   logList,
		grid:      grid,
	}

	go t.pollKeys()

	return t, nil
}

func (t *TUIRenderer) pollKeys() {
	events := ui.PollEvents()
	for e := range events {
		switch e.ID {
		case "q", "<C-c>":
			t.cancel()
			return
		case "<Resize>":
			width, height := ui.TerminalDimensions()
			t.grid.SetRect(0, 0, width, height)
			ui.Render(t.grid)
		}
	}
}

// Render updates the ring buffers, bounded log panel, and status
// paragraph from report, then redraws the whole grid.
func (t *TUIRenderer) Render(r health.Report) error {
	t.cpuHistory = pushRing(t.cpuHistory, r.System.CPUPercent, ringSize)
	t.memHistory = pushRing(t.memHistory, r.System.MemoryPercent, ringSize)
	t.cpuPlot.Data = [][]float64{nonEmpty(t.cpuHistory)}
	t.memPlot.Data = [][]float64{nonEmpty(t.memHistory)}

	t.statusBox.Text = fmt.Sprintf(
		"overall=%s  running=%t  peers=%d  errors/h=%d  updated=%s",
		r.Overall, r.Nockchain.Running, r.Nockchain.PeerCount, r.Nockchain.ErrorsLastHour,
		r.Timestamp.Format(time.RFC3339),
	)
	switch r.Overall {
	case health.StatusCritical:
		t.statusBox.TextStyle = ui.NewStyle(ui.ColorRed, ui.ColorClear, ui.ModifierBold)
	case health.StatusWarning:
		t.statusBox.TextStyle = ui.NewStyle(ui.ColorYellow, ui.ColorClear, ui.ModifierBold)
	default:
		t.statusBox.TextStyle = ui.NewStyle(ui.ColorGreen, ui.ColorClear)
	}

	line := fmt.Sprintf("%s  %s  cpu=%.1f%% mem=%.1f%% disk=%.1f%%",
		r.Timestamp.Format("15:04:05"), r.Overall, r.System.CPUPercent, r.System.MemoryPercent, r.System.DiskPercent)
	t.logLines = append([]string{line}, t.logLines...)
	if len(t.logLines) > logBufferSize {
		t.logLines = t.logLines[:logBufferSize]
	}
	t.logList.Rows = t.logLines

	ui.Render(t.grid)
	return nil
}

func (t *TUIRenderer) Close() error {
	ui.Close()
	return nil
}

func pushRing(buf []float64, v float64, max int) []float64 {
	buf = append(buf, v)
	if len(buf) > max {
		buf = buf[len(buf)-max:]
	}
	return buf
}

func nonEmpty(v []float64) []float64 {
	if len(v) == 0 {
		return []float64{0}
	}
	return v
}
