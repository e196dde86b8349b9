package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/monitor"
	"github.com/docxology/nockit/internal/netprobe"
	"github.com/docxology/nockit/internal/nockiterr"
	"github.com/docxology/nockit/internal/sysprobe"
)

var monitorCommand = &cli.Command{
	Name:  "monitor",
	Usage: "periodically sample system and process health and render it",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "interval", Value: 5, Usage: "tick interval in seconds"},
		&cli.StringFlag{Name: "format", Value: "table", Usage: "table, json, compact, or tui"},
	},
	Action: runMonitor,
}

func runMonitor(c *cli.Context) error {
	ac, err := newAppContext(c)
	if err != nil {
		return err
	}

	probe := sysprobe.New("")
	collector := &monitor.Collector{
		Probe:         probe,
		Supervisor:    ac.Supervisor,
		Store:         ac.Store,
		ExpectedToRun: true,
		PeerCount: func() int {
			return len(netprobe.Peers(ac.Overlay.Config.Network.BootstrapPeers, nil))
		},
	}

	ctx := ac.Ctx
	var renderer monitor.Renderer
	format := c.String("format")
	switch format {
	case "table":
		renderer = monitor.NewTableRenderer(c.App.Writer)
	case "json":
		renderer = monitor.NewJSONRenderer(c.App.Writer)
	case "compact":
		renderer = monitor.NewCompactRenderer(c.App.Writer)
	case "tui":
		cancelCtx, cancel := context.WithCancel(ctx)
		ctx = cancelCtx
		tui, err := monitor.NewTUIRenderer(cancel)
		if err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "initialize terminal UI", err)
		}
		renderer = tui
	default:
		return nockiterr.New(nockiterr.KindUser, "unknown monitor format: "+format)
	}
	defer renderer.Close()

	loop := monitor.NewLoop(collector, renderer, time.Duration(c.Uint64("interval"))*time.Second)
	return loop.Run(ctx)
}
