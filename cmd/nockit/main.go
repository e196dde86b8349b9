// Command nockit is CommandSurface: the operator-visible verbs that
// compose ConfigStore, KeyStore, LogStore, LogAnalyzer,
// ProcessSupervisor, SystemProbe, HealthAggregator, MonitorLoop,
// NetworkProbe and Benchmarker into a single binary (spec §4.11).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/docxology/nockit/internal/nockiterr"
	"github.com/docxology/nockit/internal/supervisor"
)

// version is set via linker flag at release build time; a plain
// `go build` leaves it at "dev".
var version = "dev"

func main() {
	logger := newLogger(hasVerboseFlag(os.Args))
	defer logger.Sync()

	app := &cli.App{
		Name:    "nockit",
		Usage:   "operator toolkit for running and observing a nockchain node",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Usage: "configuration directory (default: platform app-data dir)"},
			&cli.BoolFlag{Name: "verbose", Usage: "print structured multi-line error detail and debug logs"},
		},
		Commands: []*cli.Command{
			setupCommand,
			walletCommand,
			miningCommand,
			networkCommand,
			logsCommand,
			monitorCommand,
			devCommand,
			benchCommand,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Metadata = map[string]interface{}{
		appCtxKey:    ctx,
		loggerCtxKey: logger,
	}

	runErr := app.Run(os.Args)

	// A command's Action registers its Supervisor in app.Metadata as it
	// builds its appContext; stop whatever it left Running before the
	// process exits, the way host shutdown is meant to (spec §4.5). A
	// backgrounded "mining start" has already returned and exited by
	// this point, so this only reaches children of a still-foreground
	// command such as "monitor".
	if sup, ok := app.Metadata[supervisorCtxKey].(*supervisor.Supervisor); ok {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), supervisor.DefaultStopDeadline+2*time.Second)
		sup.StopAll(shutdownCtx)
		cancel()
	}

	if runErr != nil {
		exitOnError(logger, os.Args, runErr)
	}
}

const (
	appCtxKey        = "ctx"
	loggerCtxKey     = "logger"
	supervisorCtxKey = "supervisor"
)

// hasVerboseFlag scans raw args ahead of cli.App parsing, since the
// logger must exist before app.Run to capture Before-hook failures.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--verbose" || a == "-verbose" {
			return true
		}
	}
	return false
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// exitOnError implements spec §7's user-visible error contract: one
// line "ERROR: <kind>: <summary>" to stderr, an exit code from the
// error's Kind, and on --verbose a structured detail line via zap.
func exitOnError(logger *zap.Logger, args []string, err error) {
	kind := nockiterr.KindOf(err)
	fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", kind, err)
	if hasVerboseFlag(args) {
		logger.Error("command failed", zap.String("kind", kind.String()), zap.Error(err))
	}
	os.Exit(kind.ExitCode())
}
