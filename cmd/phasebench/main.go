// Command phasebench times repeated simulation runs and prints peak and
// average throughput as a CSV row.
package main

import (
	"encoding/csv"
	"flag"
	"log/slog"
	"os"

	"github.com/talgya/graindeer/internal/bench"
	"github.com/talgya/graindeer/internal/config"
	"github.com/talgya/graindeer/internal/entropy"
)

func main() {
	cfg, err := config.ParseBench(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		slog.Error("configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	out := csv.NewWriter(os.Stdout)
	defer out.Flush()

	// Header only, so sweeps can print it once and append rows.
	if cfg.Header {
		out.Write(bench.Header)
		return
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.ClockSeed()
	}

	res, err := bench.NewRunner().Run(bench.Config{
		Sim:         cfg.Engine(),
		Noise:       cfg.Noise,
		Seed:        seed,
		Trials:      cfg.Trials,
		Stable:      cfg.Stable,
		MaxAttempts: cfg.MaxAttempts,
	})
	if err != nil {
		slog.Error("benchmark failed", "error", err)
		os.Exit(1)
	}

	if err := out.Write(res.Record()); err != nil {
		slog.Error("write result", "error", err)
		os.Exit(1)
	}
}
