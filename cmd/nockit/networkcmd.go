package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/netprobe"
	"github.com/docxology/nockit/internal/nockiterr"
	"github.com/docxology/nockit/internal/sysprobe"
)

var networkCommand = &cli.Command{
	Name:  "network",
	Usage: "connectivity diagnostics against diagnostic hosts and configured peers",
	Subcommands: []*cli.Command{
		networkStatusCommand,
		networkPeersCommand,
		networkPingCommand,
		networkTrafficCommand,
	},
}

func newNetProbe(ac *appContext) *netprobe.Probe {
	return netprobe.New(sysprobe.New(""))
}

var networkStatusCommand = &cli.Command{
	Name:  "status",
	Usage: "resolve a fixed set of diagnostic hosts and report reachability",
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		report := newNetProbe(ac).Status(ac.Ctx)
		for _, h := range report.Hosts {
			if h.Reachable {
				fmt.Fprintf(c.App.Writer, "%-16s reachable   rtt=%s\n", h.Host, h.RTT)
			} else {
				fmt.Fprintf(c.App.Writer, "%-16s unreachable %v\n", h.Host, h.Err)
			}
		}
		return nil
	},
}

var networkPeersCommand = &cli.Command{
	Name:  "peers",
	Usage: "list configured bootstrap peers",
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		peers := netprobe.Peers(ac.Overlay.Config.Network.BootstrapPeers, nil)
		if len(peers) == 0 {
			fmt.Fprintln(c.App.Writer, "no peers configured")
			return nil
		}
		for _, p := range peers {
			fmt.Fprintln(c.App.Writer, p.Address)
		}
		return nil
	},
}

var networkPingCommand = &cli.Command{
	Name:      "ping",
	Usage:     "TCP-dial-time a peer multiaddress",
	ArgsUsage: "MULTIADDR",
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		peer := c.Args().First()
		if peer == "" && len(ac.Overlay.Config.Network.BootstrapPeers) > 0 {
			peer = ac.Overlay.Config.Network.BootstrapPeers[0]
		}
		if peer == "" {
			return nockiterr.New(nockiterr.KindUser, "ping requires a peer multiaddress argument or a configured bootstrap peer")
		}
		result := newNetProbe(ac).Ping(ac.Ctx, peer)
		if result.Reachable {
			fmt.Fprintf(c.App.Writer, "%s reachable rtt=%s\n", peer, result.RTT)
		} else {
			fmt.Fprintf(c.App.Writer, "%s unreachable: %v\n", peer, result.Err)
		}
		return nil
	},
}

var networkTrafficCommand = &cli.Command{
	Name:  "traffic",
	Usage: "sample network traffic deltas over a duration",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "duration", Value: 5, Usage: "sampling window in seconds"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		sample := newNetProbe(ac).Traffic(ac.Ctx, time.Duration(c.Uint64("duration"))*time.Second)
		fmt.Fprintf(c.App.Writer, "rx=%d bytes tx=%d bytes over %s\n", sample.RxBytes, sample.TxBytes, sample.Duration)
		return nil
	},
}
