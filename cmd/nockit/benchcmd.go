package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/bench"
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "run the fixed micro-benchmark suite over crypto, storage, and network paths",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "all", Usage: "run every category (default when --category is unset)"},
		&cli.StringFlag{Name: "category", Usage: "restrict to one category: crypto, storage, network"},
		&cli.Uint64Flag{Name: "iterations", Usage: "override the configured iteration count"},
		&cli.StringFlag{Name: "output", Usage: "write the JSON suite into this path's directory instead of <config-dir>"},
		&cli.StringSliceFlag{Name: "compare", Usage: "two saved suite JSON files to diff instead of running"},
	},
	Action: runBench,
}

func runBench(c *cli.Context) error {
	ac, err := newAppContext(c)
	if err != nil {
		return err
	}

	if paths := c.StringSlice("compare"); len(paths) == 2 {
		return runBenchCompare(c, paths[0], paths[1])
	}

	iterations := c.Uint64("iterations")
	if iterations == 0 {
		iterations = ac.Overlay.BenchIterations()
	}
	warmup := ac.Overlay.Config.Benchmarking.WarmupIterations

	suite, profiles := bench.RunSuite("nockit", c.String("category"), warmup, iterations, ac.Dir, c.Bool("verbose"))

	for i, r := range suite.Results {
		fmt.Fprintf(c.App.Writer, "%-20s mean=%9.0fns p95=%9.0fns p99=%9.0fns throughput=%.1f/s success=%.1f%%\n",
			r.Name, r.MeanNS, r.P95NS, r.P99NS, r.ThroughputOpsPerSec, r.SuccessRatePct)
		if i < len(profiles) {
			for _, cp := range profiles[i].Checkpoints {
				fmt.Fprintf(c.App.Writer, "  %-10s %s\n", cp.Name, cp.Duration)
			}
		}
	}

	if !ac.Overlay.Config.Benchmarking.SaveResults {
		return nil
	}
	outDir := c.String("output")
	if outDir == "" {
		outDir = ac.Dir
	} else {
		outDir = filepath.Dir(outDir)
	}
	path, err := bench.SaveSuite(outDir, suite)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved suite to %s\n", path)
	return nil
}

func runBenchCompare(c *cli.Context, aPath, bPath string) error {
	current, err := bench.LoadSuite(aPath)
	if err != nil {
		return err
	}
	previous, err := bench.LoadSuite(bPath)
	if err != nil {
		return err
	}
	deltas := bench.Compare(current, previous)
	if c.Bool("verbose") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(deltas)
	}
	for _, d := range deltas {
		mark := ""
		if d.Regressed {
			mark = " REGRESSED"
		}
		fmt.Fprintf(c.App.Writer, "%-20s %+.1f%% mean, %+.1f%% throughput%s\n", d.Name, d.MeanChangePct, d.ThroughputChangePct, mark)
	}
	return nil
}
