package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/config"
	"github.com/docxology/nockit/internal/nockiterr"
)

var devCommand = &cli.Command{
	Name:  "dev",
	Usage: "developer workflow helpers around the node project's build toolchain",
	Subcommands: []*cli.Command{
		devInitCommand,
		devTestCommand,
		devBuildCommand,
		devCleanCommand,
	},
}

// devToolchain is the build tool dev subcommands shell out to. The
// node project this toolkit manages is a Rust workspace, so cargo is
// the default; NOCKIT_DEV_TOOLCHAIN overrides it for a non-cargo
// checkout.
func devToolchain() string {
	if t := os.Getenv("NOCKIT_DEV_TOOLCHAIN"); t != "" {
		return t
	}
	return "cargo"
}

func runDevCommand(c *cli.Context, args ...string) error {
	cmd := exec.CommandContext(ctxFrom(c), devToolchain(), args...)
	cmd.Stdout = c.App.Writer
	cmd.Stderr = c.App.ErrWriter
	if err := cmd.Run(); err != nil {
		return nockiterr.Wrap(nockiterr.KindProcess, "dev toolchain command failed", err)
	}
	return nil
}

var devInitCommand = &cli.Command{
	Name:      "init",
	Usage:     "scaffold a fresh node project workspace at PATH",
	ArgsUsage: "PATH",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return nockiterr.New(nockiterr.KindUser, "dev init requires a PATH argument")
		}
		store := config.New(path)
		if err := store.EnsureLayout(); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "initialized node project workspace at %s\n", path)
		return nil
	},
}

var devTestCommand = &cli.Command{
	Name:  "test",
	Usage: "run the node project's test suite",
	Action: func(c *cli.Context) error {
		return runDevCommand(c, "test")
	},
}

var devBuildCommand = &cli.Command{
	Name:  "build",
	Usage: "build the node project",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "target", Value: "debug", Usage: "release or debug"},
	},
	Action: func(c *cli.Context) error {
		if c.String("target") == "release" {
			return runDevCommand(c, "build", "--release")
		}
		return runDevCommand(c, "build")
	},
}

var devCleanCommand = &cli.Command{
	Name:  "clean",
	Usage: "clean the node project's build artifacts",
	Action: func(c *cli.Context) error {
		return runDevCommand(c, "clean")
	},
}
