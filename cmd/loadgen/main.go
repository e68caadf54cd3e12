// Package main provides the CLI entry point for the order load generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/infrastructure/logger"
	"github.com/orderbridge/backend/internal/loadgen"
)

// CLI flags
var (
	configPath     string
	duration       time.Duration
	qps            float64
	concurrency    int
	verbose        bool
	validate       bool
	prometheusAddr string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	flag.StringVar(&configPath, "c", "", "Path to the YAML configuration file (shorthand)")

	flag.DurationVar(&duration, "duration", 0, "Override run duration (e.g., 5m)")
	flag.DurationVar(&duration, "d", 0, "Override run duration (shorthand)")
	flag.Float64Var(&qps, "qps", 0, "Override orders per second")
	flag.IntVar(&concurrency, "concurrency", 0, "Override the number of workers")

	flag.BoolVar(&verbose, "verbose", false, "Log every order")
	flag.BoolVar(&verbose, "v", false, "Log every order (shorthand)")
	flag.BoolVar(&validate, "validate", false, "Validate configuration and exit")
	flag.StringVar(&prometheusAddr, "prometheus", "", "Serve Prometheus metrics on this address (e.g., :9090)")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	if configPath == "" {
		return errors.New("-config is required")
	}
	cfg, err := loadgen.Load(configPath)
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if qps > 0 {
		cfg.QPS = qps
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}
	if validate {
		fmt.Printf("Configuration %q is valid\n", cfg.Name)
		return nil
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr", Service: "loadgen"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := loadgen.NewMetrics()
	if prometheusAddr != "" {
		srv := &http.Server{Addr: prometheusAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
		log.Info("Serving Prometheus metrics", zap.String("addr", prometheusAddr))
	}

	runner := loadgen.NewRunner(cfg, metrics, loadgen.WithLogger(log))
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	summary, err := metrics.Summary()
	if err != nil {
		return err
	}
	printSummary(cfg, summary)
	return nil
}

func printSummary(cfg *loadgen.Config, s loadgen.Summary) {
	fmt.Printf("\n%s: %d orders, %d lines, mean latency %s\n", cfg.Name, s.Total, s.Lines, s.MeanLatency.Round(time.Millisecond))
	for _, k := range sortedKeys(s.ByStatus) {
		fmt.Printf("  status %-16s %d\n", k, s.ByStatus[k])
	}
	for _, k := range sortedKeys(s.ByError) {
		fmt.Printf("  error  %-16s %d\n", k, s.ByError[k])
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
