// Package main runs the octree benchmark from the command line.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/HexaEngine/HexaEngine-sub024/benchmark"
	"github.com/HexaEngine/HexaEngine-sub024/logging"
	"github.com/HexaEngine/HexaEngine-sub024/metrics"
	"github.com/HexaEngine/HexaEngine-sub024/utils"
)

const (
	// Flags.
	flagConfig      = "config"
	flagObjects     = "objects"
	flagIterations  = "iterations"
	flagWarmup      = "warmup"
	flagSeed        = "seed"
	flagPhases      = "phases"
	flagVerify      = "verify"
	flagMetricsAddr = "metrics-addr"
	flagLinger      = "linger"
	flagDebug       = "debug"
	flagLogLevel    = "log-level"

	metricsNamespace = "octree_bench"
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "octree-bench",
		Usage: "time insert, delete, update and culling workloads against the octree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load the benchmark configuration from JSON `FILE`; flags override it",
			},
			&cli.IntFlag{
				Name:  flagObjects,
				Usage: "number of objects",
				Value: benchmark.DefaultObjects,
			},
			&cli.IntFlag{
				Name:  flagIterations,
				Usage: "measured iterations per phase",
				Value: benchmark.DefaultIterations,
			},
			&cli.IntFlag{
				Name:  flagWarmup,
				Usage: "warmup rounds before the first phase",
				Value: benchmark.DefaultWarmup,
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "seed for the generated objects",
				Value: benchmark.DefaultSeed,
			},
			&cli.StringSliceFlag{
				Name:  flagPhases,
				Usage: "phases to run, in order (default: all)",
			},
			&cli.BoolFlag{
				Name:  flagVerify,
				Usage: "check the tree's invariants after every phase",
			},
			&cli.StringFlag{
				Name:  flagMetricsAddr,
				Usage: "serve Prometheus metrics on `ADDR` while the benchmark runs",
			},
			&cli.DurationFlag{
				Name:  flagLinger,
				Usage: "keep serving metrics for this long after the report is printed",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringSliceFlag{
				Name:  flagLogLevel,
				Usage: "set logger levels as `PATTERN=LEVEL`, e.g. octree-bench.octree=debug; overrides --debug",
			},
		},
		Action: runBenchmark,
	}
}

func runBenchmark(c *cli.Context) error {
	logger, treeLogger, err := newLoggers(c)
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()

	cfg, err := benchmarkConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	phaseMetrics, err := metrics.NewPhaseMetrics(metricsNamespace, reg)
	if err != nil {
		return err
	}
	runner, err := benchmark.NewRunner(cfg, logger, clock.New(),
		benchmark.WithObserver(phaseMetrics), benchmark.WithTreeLogger(treeLogger))
	if err != nil {
		return err
	}
	reg.MustRegister(
		metrics.NewOctreeCollector(metricsNamespace, runner),
		collectors.NewGoCollector(),
	)

	if addr := c.String(flagMetricsAddr); addr != "" {
		workers, listenAddr, err := serveMetrics(ctx, addr, reg, logger)
		if err != nil {
			return err
		}
		defer workers.Stop()
		logger.Infow("serving metrics", "addr", listenAddr.String())
	}

	cfg = runner.Config()
	logger.Infow("starting benchmark", "objects", cfg.Objects, "iterations", cfg.Iterations, "seed", cfg.Seed)
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, report.Table())

	if linger := c.Duration(flagLinger); linger > 0 && c.String(flagMetricsAddr) != "" {
		logger.Infow("lingering for metrics scrapes", "duration", linger)
		select {
		case <-ctx.Done():
		case <-time.After(linger):
		}
	}
	return nil
}

// newLoggers returns the CLI logger and the logger for the tree under test, both registered so
// --log-level patterns can address them.
func newLoggers(c *cli.Context) (logging.Logger, logging.Logger, error) {
	logger := logging.NewLogger("octree-bench")
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	}
	treeLogger := logger.Sublogger("octree")
	logging.RegisterLogger(logger.Name(), logger)
	logging.RegisterLogger(treeLogger.Name(), treeLogger)

	if specs := c.StringSlice(flagLogLevel); len(specs) > 0 {
		patterns := lo.Map(specs, func(spec string, _ int) logging.LoggerPatternConfig {
			return logging.ParsePatternConfig(spec)
		})
		if err := logging.UpdateLoggerConfig(patterns, logger); err != nil {
			return nil, nil, errors.Wrap(err, "invalid --log-level")
		}
	}
	return logger, treeLogger, nil
}

// benchmarkConfig reads the --config file, if any, and applies the flags set on the command line
// on top of it.
func benchmarkConfig(c *cli.Context) (benchmark.Config, error) {
	cfg := benchmark.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = benchmark.ReadConfig(path); err != nil {
			return benchmark.Config{}, err
		}
	}

	if c.IsSet(flagObjects) {
		cfg.Objects = c.Int(flagObjects)
	}
	if c.IsSet(flagIterations) {
		cfg.Iterations = c.Int(flagIterations)
	}
	if c.IsSet(flagWarmup) {
		cfg.Warmup = c.Int(flagWarmup)
	}
	if c.IsSet(flagSeed) {
		cfg.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagPhases) {
		cfg.Phases = lo.Map(c.StringSlice(flagPhases), func(phase string, _ int) benchmark.Phase {
			return benchmark.Phase(phase)
		})
	}
	if c.IsSet(flagVerify) {
		cfg.Verify = c.Bool(flagVerify)
	}
	return cfg, cfg.Validate("benchmark")
}

// serveMetrics serves reg on /metrics at addr until ctx is done or the returned workers are
// stopped. It returns the address actually listened on.
func serveMetrics(
	ctx context.Context,
	addr string,
	reg *prometheus.Registry,
	logger logging.Logger,
) (*utils.StoppableWorkers, net.Addr, error) {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}

	workers := utils.NewStoppableWorkers(ctx,
		func(context.Context) {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("metrics server failed", "error", err)
			}
		},
		func(ctx context.Context) {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnw("metrics server did not shut down cleanly", "error", err)
			}
		},
	)
	return workers, listener.Addr(), nil
}
