package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/loganalyzer"
	"github.com/docxology/nockit/internal/miningstats"
	"github.com/docxology/nockit/internal/nockiterr"
)

var miningCommand = &cli.Command{
	Name:  "mining",
	Usage: "start, stop, and observe the supervised mining process",
	Subcommands: []*cli.Command{
		miningStartCommand,
		miningStopCommand,
		miningStatusCommand,
		miningStatsCommand,
	},
}

var miningStartCommand = &cli.Command{
	Name:  "start",
	Usage: "start the supervised nockchain binary in mining mode",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pubkey", Required: true, Usage: "mining reward public key"},
		&cli.Uint64Flag{Name: "difficulty", Usage: "difficulty target override"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		cfg := ac.Overlay.Config
		binary := cfg.Nockchain.BinaryPath
		if binary == "" {
			return nockiterr.New(nockiterr.KindConfiguration, "nockchain.binary_path is not configured")
		}

		args := []string{"--mining-pubkey", c.String("pubkey"), "--bind", ac.Overlay.BindAddress(), "--mine"}
		for _, peer := range cfg.Network.BootstrapPeers {
			args = append(args, "--peer", peer)
		}

		if err := ac.Supervisor.Start("nockchain", binary, args, cfg.NockchainEnv()); err != nil {
			return err
		}

		stats := miningstats.Store{ConfigDir: ac.Dir}
		difficulty := c.Uint64("difficulty")
		if difficulty == 0 {
			difficulty = cfg.Mining.DifficultyTarget
		}
		if err := stats.Save(miningstats.Stats{StartTime: time.Now().UTC(), Difficulty: difficulty}); err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, "mining started")
		return nil
	},
}

var miningStopCommand = &cli.Command{
	Name:  "stop",
	Usage: "stop the supervised mining process",
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		if err := ac.Supervisor.Stop("nockchain"); err != nil {
			return err
		}

		stats := miningstats.Store{ConfigDir: ac.Dir}
		if current, err := stats.Current(); err == nil {
			end := time.Now().UTC()
			current.EndTime = &end
			current.UptimeSeconds = uint64(end.Sub(current.StartTime).Seconds())
			if err := stats.Save(current); err != nil {
				return err
			}
		}

		fmt.Fprintln(c.App.Writer, "mining stopped")
		return nil
	},
}

var miningStatusCommand = &cli.Command{
	Name:  "status",
	Usage: "report the supervised mining process's current state",
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		status, found := ac.Supervisor.Status("nockchain")
		if !found {
			fmt.Fprintln(c.App.Writer, "no mining process supervised in this session")
			return nil
		}
		fmt.Fprintf(c.App.Writer, "state: %s\npid: %d\nuptime: %s\n", status.State, status.PID, status.Uptime)
		return nil
	},
}

var miningStatsCommand = &cli.Command{
	Name:  "stats",
	Usage: "aggregate historical mining statistics over a period",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "period", Value: "1d", Usage: "lookback window: 1h, 6h, 12h, 1d, 1w, 1m"},
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
		stats := miningstats.Store{ConfigDir: ac.Dir}
		summary, err := stats.Analyze(duration)
		if err != nil {
			return err
		}
		if summary.Sessions == 0 {
			fmt.Fprintln(c.App.Writer, "no mining statistics found for the specified period")
			return nil
		}
		fmt.Fprintf(c.App.Writer, "sessions: %d\nblocks mined: %d\nrewards earned: %d\ntotal uptime: %ds\naverage hash rate: %.2f h/s\n",
			summary.Sessions, summary.TotalBlocks, summary.TotalRewards, summary.TotalUptime, summary.AverageHashPS)
		return nil
	},
}
