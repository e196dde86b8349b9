package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/config"
	"github.com/docxology/nockit/internal/nockiterr"
)

var setupCommand = &cli.Command{
	Name:  "setup",
	Usage: "create the config directory and its defaults, rewriting helper scripts",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "force", Usage: "overwrite an existing config.toml with defaults"},
		&cli.BoolFlag{Name: "non-interactive", Usage: "never prompt; fail instead of asking"},
	},
	Action: runSetup,
}

func runSetup(c *cli.Context) error {
	dir, err := resolveConfigDir(c)
	if err != nil {
		return err
	}
	store := config.New(dir)
	if err := store.EnsureLayout(); err != nil {
		return err
	}

	if c.Bool("force") {
		if err := store.Save(config.Default()); err != nil {
			return err
		}
	} else if _, err := store.LoadOrCreate(); err != nil {
		return err
	}

	if err := writeHelperScripts(dir); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "nockit configuration ready at %s\n", dir)
	return nil
}

// writeHelperScripts writes the fixed start/stop/check shell helpers
// under scripts/, matching spec §6's "optional helper scripts written
// at setup time". Their contents shell out to this same binary so they
// keep working across upgrades.
func writeHelperScripts(dir string) error {
	scriptsDir := filepath.Join(dir, "scripts")
	if err := os.MkdirAll(scriptsDir, 0o755); err != nil {
		return nockiterr.Wrap(nockiterr.KindIO, "create scripts directory", err)
	}

	scripts := map[string]string{
		"start.sh": "#!/bin/sh\nexec nockit mining start --pubkey \"$MINING_PUBKEY\" \"$@\"\n",
		"stop.sh":  "#!/bin/sh\nexec nockit mining stop \"$@\"\n",
		"check.sh": "#!/bin/sh\nexec nockit mining status \"$@\"\n",
	}
	for name, contents := range scripts {
		path := filepath.Join(scriptsDir, name)
		if err := os.WriteFile(path, []byte(contents), 0o755); err != nil {
			return nockiterr.Wrap(nockiterr.KindIO, "write helper script "+name, err)
		}
	}
	return nil
}
