package bench

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"github.com/docxology/nockit/internal/nockcrypto"
	"github.com/docxology/nockit/internal/nockiterr"
)

// DefaultWarmup and DefaultIterations are reference counts for the
// fixed micro-benchmark set; RunSuite does not read them and always
// uses the warmup and iteration counts its caller passes.
const (
	DefaultWarmup     = 10
	DefaultIterations = 1000
)

// Category names the benchmark groups selectable via --category.
const (
	CategoryCrypto  = "crypto"
	CategoryStorage = "storage"
	CategoryNetwork = "network"
)

// benchmark is one fixed micro-benchmark entry in RunSuite's table.
type benchmark struct {
	name     string
	category string
	fn       func() error
}

func fixedBenchmarks(dataDir string) []benchmark {
	kp, _ := nockcrypto.Generate()
	msg := make([]byte, 256)
	rand.Read(msg)
	sig := nockcrypto.Sign(kp.Private, msg)

	payload1KB := make([]byte, 1024)
	rand.Read(payload1KB)
	payload10KB := make([]byte, 10*1024)
	rand.Read(payload10KB)

	base58Input := make([]byte, 100)
	rand.Read(base58Input)
	base58Encoded := base58.Encode(base58Input)

	return []benchmark{
		{"keygen", CategoryCrypto, func() error {
			_, err := nockcrypto.Generate()
			return err
		}},
		{"sign", CategoryCrypto, func() error {
			nockcrypto.Sign(kp.Private, msg)
			return nil
		}},
		{"verify", CategoryCrypto, func() error {
			if !nockcrypto.Verify(kp.Public, msg, sig) {
				return nockiterr.New(nockiterr.KindCryptographic, "signature failed to verify")
			}
			return nil
		}},
		{"blake3_1kb", CategoryCrypto, func() error {
			nockcrypto.HashData(payload1KB)
			return nil
		}},
		{"blake3_10kb", CategoryCrypto, func() error {
			nockcrypto.HashData(payload10KB)
			return nil
		}},
		{"base58_encode", CategoryCrypto, func() error {
			base58.Encode(base58Input)
			return nil
		}},
		{"base58_decode", CategoryCrypto, func() error {
			if base58.Decode(base58Encoded) == nil {
				return nockiterr.New(nockiterr.KindCryptographic, "base58 decode failed")
			}
			return nil
		}},
		{"file_io", CategoryStorage, func() error {
			path := filepath.Join(dataDir, "bench_file_io.tmp")
			if err := os.WriteFile(path, payload1KB, 0o600); err != nil {
				return err
			}
			_, err := os.ReadFile(path)
			return err
		}},
		{"network_loopback", CategoryNetwork, networkLoopbackOnce},
	}
}

// networkLoopbackOnce dials and round-trips a small payload against a
// freshly bound loopback listener, timing the dial+write+read path
// rather than any real network hop (spec §4.10: network benchmarks
// "must not depend on external hosts being reachable").
func networkLoopbackOnce() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer ln.Close()

	done := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, err := conn.Read(buf)
		if err == nil {
			_, err = conn.Write(buf[:n])
		}
		done <- err
	}()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), 2*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("ping")); err != nil {
		return err
	}
	reply := make([]byte, 4)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return err
	}
	return <-done
}

// RunSuite executes the fixed micro-benchmark set, optionally filtered
// to a single category, and returns the ordered Suite (spec §4.10).
func RunSuite(name, category string, warmup, iterations uint64, dataDir string, profile bool) (Suite, []ProfilingReport) {
	suite := Suite{
		Name:      name,
		Timestamp: time.Now().UTC(),
		System:    CollectSystemInfo(),
	}
	var profiles []ProfilingReport

	for _, b := range fixedBenchmarks(dataDir) {
		if category != "" && category != b.category {
			continue
		}
		var prof *Profiler
		if profile {
			prof = NewProfiler()
			prof.Checkpoint("start")
		}
		result := Run(b.name, warmup, iterations, b.fn)
		suite.Results = append(suite.Results, result)
		if prof != nil {
			prof.Checkpoint("done")
			profiles = append(profiles, prof.Report())
		}
	}
	return suite, profiles
}

// resultsFileName matches spec §6's persisted naming:
// bench_results_<name>-<timestamp>.json.
func resultsFileName(name string, at time.Time) string {
	return fmt.Sprintf("bench_results_%s-%s.json", name, at.UTC().Format("20060102T150405Z"))
}

// SaveSuite persists suite as JSON under dir, returning the path
// written.
func SaveSuite(dir string, suite Suite) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nockiterr.Wrap(nockiterr.KindIO, "create benchmark output dir", err)
	}
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return "", nockiterr.Wrap(nockiterr.KindIO, "serialize benchmark suite", err)
	}
	path := filepath.Join(dir, resultsFileName(suite.Name, suite.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nockiterr.Wrap(nockiterr.KindIO, "write benchmark suite "+path, err)
	}
	return path, nil
}

// LoadSuite reads a previously saved Suite from path.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, nockiterr.Wrap(nockiterr.KindIO, "read benchmark suite "+path, err)
	}
	var suite Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return Suite{}, nockiterr.Wrap(nockiterr.KindParsing, "parse benchmark suite "+path, err)
	}
	return suite, nil
}
