// Package netprobe implements NetworkProbe: connectivity diagnostics
// over the multiaddress peer strings the nockchain node and its
// bootstrap list use (spec §4.9), grounded on the original crate's
// status/peer/ping/traffic commands
// (original_source/nockit/src/network.rs).
package netprobe

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/docxology/nockit/internal/sysprobe"
)

// DiagnosticHosts are the fixed hostnames status() resolves to report
// general internet reachability, independent of any nockchain peer.
var DiagnosticHosts = []string{"google.com", "cloudflare.com", "1.1.1.1"}

// HostCheck is one diagnostic hostname's reachability result.
type HostCheck struct {
	Host      string
	Reachable bool
	RTT       time.Duration
	Err       error
}

// StatusReport is the result of status().
type StatusReport struct {
	Timestamp time.Time
	Hosts     []HostCheck
}

// Resolver abstracts DNS lookups so tests can substitute a fake.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Probe offers the NetworkProbe operations. A zero Dialer dials with
// net.Dialer's defaults.
type Probe struct {
	Resolver Resolver
	Dialer   net.Dialer
	Sys      *sysprobe.Probe
}

// New builds a Probe using net.DefaultResolver.
func New(sys *sysprobe.Probe) *Probe {
	return &Probe{Resolver: net.DefaultResolver, Sys: sys}
}

// Status resolves DiagnosticHosts and reports reachability/RTT for
// each, never failing the whole call on an individual host's failure
// (spec §4.9: "the probe must not assume a particular transport" and
// never treats unreachability as fatal).
func (p *Probe) Status(ctx context.Context) StatusReport {
	report := StatusReport{Timestamp: time.Now().UTC()}
	for _, host := range DiagnosticHosts {
		report.Hosts = append(report.Hosts, p.checkHost(ctx, host))
	}
	return report
}

func (p *Probe) checkHost(ctx context.Context, host string) HostCheck {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	addrs, err := p.Resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		if err == nil {
			err = errNoAddresses(host)
		}
		return HostCheck{Host: host, Reachable: false, Err: err}
	}
	return HostCheck{Host: host, Reachable: true, RTT: time.Since(start)}
}

type noAddressesErr string

func (e noAddressesErr) Error() string { return "no addresses found for " + string(e) }

func errNoAddresses(host string) error { return noAddressesErr(host) }

// Peer is one entry in the peer list: a multiaddress string plus
// whatever metadata the external peer TOML carried (spec §6: "reads
// the address field only, optionally filters by region/reliability").
type Peer struct {
	Address     string
	Region      string
	Reliability float64
}

// Peers merges the configured bootstrap peer list with any live peers
// reported by the node (liveFromNode may be nil when the node isn't
// reachable or doesn't expose one).
func Peers(bootstrap []string, liveFromNode []string) []Peer {
	seen := map[string]bool{}
	var peers []Peer
	for _, addr := range bootstrap {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		peers = append(peers, Peer{Address: addr})
	}
	for _, addr := range liveFromNode {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		peers = append(peers, Peer{Address: addr})
	}
	return peers
}

// PingResult is one round-trip measurement against a peer.
type PingResult struct {
	Peer      string
	Reachable bool
	RTT       time.Duration
	Err       error
}

// Ping measures a round trip to peer, a multiaddress string. It
// extracts a dialable host:port if present and performs a TCP
// connect-timing probe; a peer with no dialable transport hint is
// reported unreachable rather than erroring the whole call.
func (p *Probe) Ping(ctx context.Context, peer string) PingResult {
	addr, ok := dialableAddress(peer)
	if !ok {
		return PingResult{Peer: peer, Reachable: false, Err: errUndialable(peer)}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := p.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return PingResult{Peer: peer, Reachable: false, Err: err}
	}
	defer conn.Close()
	return PingResult{Peer: peer, Reachable: true, RTT: time.Since(start)}
}

type undialableErr string

func (e undialableErr) Error() string { return "no dialable address in " + string(e) }
func errUndialable(peer string) error { return undialableErr(peer) }

// dialableAddress extracts a host:port pair from a libp2p-style
// multiaddress (e.g. "/ip4/127.0.0.1/tcp/30333") if one is present.
func dialableAddress(multiaddr string) (string, bool) {
	parts := strings.Split(strings.Trim(multiaddr, "/"), "/")
	var host, port string
	for i := 0; i+1 < len(parts); i += 2 {
		switch parts[i] {
		case "ip4", "ip6", "dns4", "dns6", "dns":
			host = parts[i+1]
		case "tcp":
			port = parts[i+1]
		}
	}
	if host == "" || port == "" {
		return "", false
	}
	return net.JoinHostPort(host, port), true
}

// TrafficSample is one delta reading from traffic().
type TrafficSample struct {
	Duration time.Duration
	RxBytes  uint64
	TxBytes  uint64
}

// Traffic samples SystemProbe's network counters at the start and end
// of duration and reports the delta (spec §4.9).
func (p *Probe) Traffic(ctx context.Context, duration time.Duration) TrafficSample {
	start := p.Sys.Sample(ctx)
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	end := p.Sys.Sample(ctx)

	sample := TrafficSample{Duration: duration}
	if start.NetRxBytes <= end.NetRxBytes {
		sample.RxBytes = end.NetRxBytes - start.NetRxBytes
	}
	if start.NetTxBytes <= end.NetTxBytes {
		sample.TxBytes = end.NetTxBytes - start.NetTxBytes
	}
	return sample
}
