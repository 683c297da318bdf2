// NTP query tool

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"net/netip"
	"os"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/ntpquery/core/client"
	"example.com/ntpquery/core/config"
	"example.com/ntpquery/core/report"
)

const (
	metricsPrefix = "ntpquery_"

	// Round trip times are recorded in microseconds, up to one minute.
	histoMin     = 1
	histoMax     = 60_000_000
	histoSigfigs = 3
)

type options struct {
	cfg     config.Config
	stats   bool
	metrics bool
}

var (
	log *zap.Logger

	errNoServer = errors.New("no server specified")
)

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		// See https://github.com/scionproto/scion/blob/master/pkg/log/log.go
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
}

// parseArgs merges the configuration file, if any, with the command line.
// Flags that are set explicitly take precedence over the file, positional
// arguments replace its server list.
func parseArgs(args []string, output io.Writer) (options, error) {
	var (
		configFile string
		version    int
		timeout    float64
		dscp       int
		port       uint
		verbose    bool
		opts       options
	)

	fs := flag.NewFlagSet("ntpquery", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: ntpquery [flags] server...")
		fs.PrintDefaults()
	}
	fs.StringVar(&configFile, "config", "", "Config file")
	fs.IntVar(&version, "o", config.DefaultVersion, "NTP version to send, which can be 1, 2, 3 or 4")
	fs.IntVar(&version, "version", config.DefaultVersion, "Alias for -o")
	fs.Float64Var(&timeout, "t", config.DefaultTimeout, "Maximum time waiting for a server response, in seconds and fraction")
	fs.Float64Var(&timeout, "timeout", config.DefaultTimeout, "Alias for -t")
	fs.IntVar(&dscp, "dscp", 0, "DSCP value for outgoing requests")
	fs.UintVar(&port, "port", config.DefaultPort, "Server port")
	fs.BoolVar(&verbose, "verbose", false, "Verbose logging")
	fs.BoolVar(&opts.stats, "stats", false, "Print round trip time statistics")
	fs.BoolVar(&opts.metrics, "metrics", false, "Print client metrics")

	err := fs.Parse(args)
	if err != nil {
		return opts, err
	}

	opts.cfg = config.Default()
	if configFile != "" {
		opts.cfg, err = config.Load(configFile)
		if err != nil {
			return opts, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o", "version":
			opts.cfg.Version = version
		case "t", "timeout":
			opts.cfg.Timeout = timeout
		case "dscp":
			opts.cfg.DSCP = dscp
		case "port":
			opts.cfg.Port = uint16(port)
		case "verbose":
			opts.cfg.Verbose = verbose
		}
	})
	if port > math.MaxUint16 {
		return opts, fmt.Errorf("%w `%d`", config.ErrInvalidPort, port)
	}
	if fs.NArg() != 0 {
		opts.cfg.Servers = fs.Args()
	}

	err = opts.cfg.Validate()
	if err != nil {
		return opts, err
	}
	if len(opts.cfg.Servers) == 0 {
		fs.Usage()
		return opts, errNoServer
	}
	return opts, nil
}

func queryAddr(ctx context.Context, w io.Writer, log *zap.Logger,
	c *client.IPClient, server string, addr netip.AddrPort) error {
	resp, err := c.Query(ctx, log, addr)
	if err != nil {
		log.Debug("failed to query server",
			zap.String("server", server), zap.Stringer("to", addr), zap.Error(err))
		return err
	}
	return report.WritePacket(w, &resp.Packet)
}

// run queries every address of every server, one at a time and in order.
// Failures are reported inline and never stop the remaining queries.
func run(ctx context.Context, w io.Writer, log *zap.Logger,
	r client.Resolver, c *client.IPClient, port uint16, servers []string) {
	for i, server := range servers {
		if i != 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, server)

		addrs, err := client.Resolve(ctx, r, server, port)
		if err != nil {
			log.Debug("failed to resolve server", zap.String("server", server), zap.Error(err))
			fmt.Fprintf(w, "  %v\n", err)
			continue
		}

		for j, addr := range addrs {
			if j != 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %v\n", addr.Addr())

			err = queryAddr(ctx, w, log, c, server, addr)
			if err != nil {
				fmt.Fprintf(w, "    %v\n", err)
			}
		}
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		_, err = expfmt.MetricFamilyToText(w, mf)
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	initLogger(opts.cfg.Verbose)
	if err != nil {
		log.Fatal("invalid arguments", zap.Error(err))
	}

	c := &client.IPClient{
		Version: uint8(opts.cfg.Version),
		Timeout: opts.cfg.TimeoutDuration(),
		DSCP:    uint8(opts.cfg.DSCP),
	}
	if opts.stats {
		c.Histo = hdrhistogram.New(histoMin, histoMax, histoSigfigs)
	}

	run(context.Background(), os.Stdout, log, nil, c, opts.cfg.Port, opts.cfg.Servers)

	if opts.stats {
		fmt.Println()
		err = report.WriteStats(os.Stdout, c.Histo)
		if err != nil {
			log.Error("failed to write statistics", zap.Error(err))
		}
	}
	if opts.metrics {
		fmt.Println()
		err = writeMetrics(os.Stdout, prometheus.DefaultGatherer)
		if err != nil {
			log.Error("failed to write metrics", zap.Error(err))
		}
	}
	_ = log.Sync()
}
