package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/loganalyzer"
	"github.com/docxology/nockit/internal/logstore"
	"github.com/docxology/nockit/internal/nockiterr"
)

var logsCommand = &cli.Command{
	Name:  "logs",
	Usage: "tail, search, analyze, export and clean LogStore streams",
	Subcommands: []*cli.Command{
		logsTailCommand,
		logsSearchCommand,
		logsAnalyzeCommand,
		logsExportCommand,
		logsCleanCommand,
	},
}

const defaultStream = "nockchain"

func streamFlag() cli.Flag {
	return &cli.StringFlag{Name: "file", Value: defaultStream, Usage: "log stream to operate on"}
}

var logsTailCommand = &cli.Command{
	Name:  "tail",
	Usage: "print the last N records of a stream, optionally following new ones",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "lines", Value: 10, Usage: "number of trailing records to print"},
		&cli.BoolFlag{Name: "follow", Usage: "keep printing new records as they are appended"},
		streamFlag(),
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		stream := c.String("file")
		records, err := ac.Store.Tail(stream, c.Int("lines"))
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintln(c.App.Writer, logstore.FormatLine(r, ac.Overlay.LogFormat()))
		}
		if !c.Bool("follow") {
			return nil
		}
		return followStream(ac.Ctx, c, ac.Store, stream)
	},
}

func followStream(ctx context.Context, c *cli.Context, store *logstore.Store, stream string) error {
	records, errs := store.Follow(ctx, stream)
	for {
		select {
		case r, ok := <-records:
			if !ok {
				return nil
			}
			fmt.Fprintln(c.App.Writer, logstore.FormatLine(r, "pretty"))
		case err := <-errs:
			if err != nil {
				return nockiterr.Wrap(nockiterr.KindIO, "follow log stream", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

var logsSearchCommand = &cli.Command{
	Name:      "search",
	Usage:     "regex-search a stream's records",
	ArgsUsage: "PATTERN",
	Flags: []cli.Flag{
		streamFlag(),
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		pattern := c.Args().First()
		if pattern == "" {
			return nockiterr.New(nockiterr.KindUser, "search requires a PATTERN argument")
		}
		records, errs := ac.Store.Search(ac.Ctx, c.String("file"), pattern, logstore.TimeRange{}, nil)
		for {
			select {
			case r, ok := <-records:
				if !ok {
					return nil
				}
				fmt.Fprintln(c.App.Writer, logstore.FormatLine(r, ac.Overlay.LogFormat()))
			case err := <-errs:
				if err != nil {
					return err
				}
			}
		}
	},
}

var logsAnalyzeCommand = &cli.Command{
	Name:  "analyze",
	Usage: "summarize a stream's level, component, error-pattern and metric history",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "period", Value: "1d", Usage: "lookback window: 1h, 6h, 12h, 1d, 1w, 1m"},
		streamFlag(),
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		duration, err := loganalyzer.ParsePeriod(c.String("period"))
		if err != nil {
			return err
		}
		all, err := ac.Store.TailAll(c.String("file"))
		if err != nil {
			return err
		}
		cutoff := time.Now().Add(-duration)
		var recent []logstore.Record
		for _, r := range all {
			if r.Timestamp.After(cutoff) {
				recent = append(recent, r)
			}
		}

		summary := loganalyzer.Analyze(recent, time.Hour)
		fmt.Fprintf(c.App.Writer, "records analyzed: %d\n", len(recent))
		fmt.Fprintln(c.App.Writer, "by level:")
		for level, n := range summary.Levels {
			fmt.Fprintf(c.App.Writer, "  %-6s %d\n", level, n)
		}
		fmt.Fprintln(c.App.Writer, "by component:")
		for comp, n := range summary.Components {
			fmt.Fprintf(c.App.Writer, "  %-10s %d\n", comp, n)
		}
		fmt.Fprintln(c.App.Writer, "top error patterns:")
		for pattern, n := range summary.Errors {
			fmt.Fprintf(c.App.Writer, "  (%d) %s\n", n, pattern)
		}
		return nil
	},
}

var logsExportCommand = &cli.Command{
	Name:  "export",
	Usage: "export a stream (or all streams) to json, csv, or txt",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "format", Value: logstore.ExportJSON, Usage: "json, csv, or txt"},
		&cli.StringFlag{Name: "output", Required: true, Usage: "destination file"},
		&cli.StringFlag{Name: "file", Usage: "log stream to export (default: all streams)"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		n, err := ac.Store.Export(c.String("file"), c.String("format"), c.String("output"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "exported %d log entries to %s\n", n, c.String("output"))
		return nil
	},
}

var logsCleanCommand = &cli.Command{
	Name:  "clean",
	Usage: "delete rotated segments older than a retention window",
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "days", Usage: "override the configured retention window (0 = use configured value)"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		n, err := ac.Store.Clean(uint32(c.Uint("days")))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "removed %d expired segments\n", n)
		return nil
	},
}
