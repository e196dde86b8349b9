package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/docxology/nockit/internal/config"
	"github.com/docxology/nockit/internal/logstore"
	"github.com/docxology/nockit/internal/nockiterr"
	"github.com/docxology/nockit/internal/supervisor"
)

// appContext bundles what nearly every command needs: the resolved
// config directory, the loaded configuration overlay, and shared
// LogStore/Supervisor handles. Built once per invocation, per spec
// §5's "no two commands share a mutable config".
type appContext struct {
	Dir        string
	Overlay    config.Overlay
	Store      *logstore.Store
	Supervisor *supervisor.Supervisor
	Logger     *zap.Logger
	Ctx        context.Context
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerCtxKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func ctxFrom(c *cli.Context) context.Context {
	if ctx, ok := c.App.Metadata[appCtxKey].(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// resolveConfigDir applies the --config-dir flag, then the
// NOCKIT_CONFIG_DIR environment variable, then a platform-appropriate
// application-data directory (spec §6).
func resolveConfigDir(c *cli.Context) (string, error) {
	if dir := c.String("config-dir"); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv(config.EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", nockiterr.Wrap(nockiterr.KindConfiguration, "resolve default config directory", err)
	}
	return filepath.Join(base, "nockit"), nil
}

// newAppContext loads or creates config.toml under the resolved
// directory and wires the shared components every command composes.
func newAppContext(c *cli.Context) (*appContext, error) {
	dir, err := resolveConfigDir(c)
	if err != nil {
		return nil, err
	}
	store := config.New(dir)
	cfg, err := store.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	overlay := config.NewOverlay(cfg)

	logStore := logstore.New(dir, overlay.LogFormat(), cfg.Logging.RotationSizeMB, cfg.Logging.RetentionDays)
	sup := supervisor.New(logStore)
	c.App.Metadata[supervisorCtxKey] = sup

	return &appContext{
		Dir:        dir,
		Overlay:    overlay,
		Store:      logStore,
		Supervisor: sup,
		Logger:     loggerFrom(c),
		Ctx:        ctxFrom(c),
	}, nil
}
