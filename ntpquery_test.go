package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go.uber.org/zap"

	"example.com/ntpquery/base/metrics"
	"example.com/ntpquery/core/client"
	"example.com/ntpquery/core/config"
	"example.com/ntpquery/net/ntp"
	"example.com/ntpquery/net/ntp/ntptest"
)

var errNoSuchHost = errors.New("no such host")

type fakeResolver map[string][]netip.Addr

func (r fakeResolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	ips, ok := r[host]
	if !ok {
		return nil, errNoSuchHost
	}
	return ips, nil
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-o", "3", "-t", "0.5", "-stats", "a.example", "b.example"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.cfg.Version != 3 || opts.cfg.Timeout != 0.5 || !opts.stats || opts.metrics {
		t.Errorf("parseArgs = %+v", opts)
	}
	if opts.cfg.Port != ntp.ServerPort {
		t.Errorf("port = %d, want %d", opts.cfg.Port, ntp.ServerPort)
	}
	if len(opts.cfg.Servers) != 2 || opts.cfg.Servers[0] != "a.example" || opts.cfg.Servers[1] != "b.example" {
		t.Errorf("servers = %v", opts.cfg.Servers)
	}

	opts, err = parseArgs([]string{"-version", "2", "-timeout", "1", "time.example"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.cfg.Version != 2 || opts.cfg.Timeout != 1 {
		t.Errorf("parseArgs with long flags = %+v", opts.cfg)
	}
}

func TestParseArgsInvalid(t *testing.T) {
	for _, tc := range []struct {
		args []string
		err  error
	}{
		{[]string{"-o", "0", "time.example"}, config.ErrInvalidVersion},
		{[]string{"-o", "5", "time.example"}, config.ErrInvalidVersion},
		{[]string{"-t", "0", "time.example"}, config.ErrInvalidTimeout},
		{[]string{"-dscp", "64", "time.example"}, config.ErrInvalidDSCP},
		{[]string{"-port", "70000", "time.example"}, config.ErrInvalidPort},
		{[]string{"-o", "4"}, errNoServer},
	} {
		_, err := parseArgs(tc.args, io.Discard)
		if !errors.Is(err, tc.err) {
			t.Errorf("parseArgs(%q) = %v, want %v", tc.args, err, tc.err)
		}
	}
}

func TestParseArgsConfigFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ntpquery.toml")
	err := os.WriteFile(name, []byte(`
servers = ["a.example", "b.example"]
version = 2
timeout = 3.5
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	opts, err := parseArgs([]string{"-config", name, "-o", "4"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.cfg.Version != 4 || opts.cfg.Timeout != 3.5 || len(opts.cfg.Servers) != 2 {
		t.Errorf("parseArgs = %+v", opts.cfg)
	}

	opts, err = parseArgs([]string{"-config", name, "c.example"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.cfg.Servers) != 1 || opts.cfg.Servers[0] != "c.example" {
		t.Errorf("servers = %v, want [c.example]", opts.cfg.Servers)
	}
}

func startServer(t *testing.T, h ntptest.Handler) *ntptest.Server {
	t.Helper()
	s, err := ntptest.NewServer("udp4", h)
	if err != nil {
		t.Skipf("cannot listen on loopback: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestRun(t *testing.T) {
	s := startServer(t, ntptest.Respond)
	r := fakeResolver{"good.example": {s.Addr.Addr()}}
	c := &client.IPClient{Timeout: time.Second}

	var out bytes.Buffer
	run(context.Background(), &out, zap.NewNop(), r, c, s.Addr.Port(),
		[]string{"bad.example", "good.example"})

	lines := strings.Split(out.String(), "\n")
	want := []string{
		"bad.example",
		"  failed to resolve host bad.example: no such host",
		"",
		"good.example",
		"  127.0.0.1",
		"    leap: No Warning, version: 4, mode: Server, stratum: 2",
	}
	if len(lines) < len(want) {
		t.Fatalf("run output too short:\n%s", out.String())
	}
	for i := range want {
		if !strings.HasPrefix(lines[i], want[i]) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if !strings.Contains(out.String(), "    reference id: 192.0.2.1\n") {
		t.Errorf("missing reference id in output:\n%s", out.String())
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	var n atomic.Int32
	handlers := []ntptest.Handler{ntptest.Truncated(20), ntptest.Silent, ntptest.Respond}
	s := startServer(t, func(req *ntp.Packet, rxt time.Time) []byte {
		i := int(n.Add(1)) - 1
		if i >= len(handlers) {
			i = len(handlers) - 1
		}
		return handlers[i](req, rxt)
	})
	ip := s.Addr.Addr()
	r := fakeResolver{"flaky.example": {ip, ip, ip}}
	c := &client.IPClient{Timeout: 200 * time.Millisecond}

	var out bytes.Buffer
	run(context.Background(), &out, zap.NewNop(), r, c, s.Addr.Port(), []string{"flaky.example"})

	lines := strings.Split(out.String(), "\n")
	want := []string{
		"flaky.example",
		"  127.0.0.1",
		"    " + client.ErrResponseTooShort.Error(),
		"",
		"  127.0.0.1",
		"    " + client.ErrTimeout.Error(),
		"",
		"  127.0.0.1",
		"    leap: No Warning",
	}
	if len(lines) < len(want) {
		t.Fatalf("run output too short:\n%s", out.String())
	}
	for i := range want {
		if !strings.HasPrefix(lines[i], want[i]) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteMetrics(t *testing.T) {
	var out bytes.Buffer
	err := writeMetrics(&out, prometheus.DefaultGatherer)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "# TYPE "+metrics.IPClientReqsSentN+" counter") {
		t.Errorf("missing client counters:\n%s", out.String())
	}
	if strings.Contains(out.String(), "go_goroutines") {
		t.Errorf("unexpected runtime metrics in output")
	}
}
