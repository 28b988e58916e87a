// Command graindeer runs the month-by-month grain and graindeer simulation
// and prints one CSV row per simulated month.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/talgya/graindeer/internal/config"
	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/entropy"
	"github.com/talgya/graindeer/internal/persistence"
	"github.com/talgya/graindeer/internal/report"
)

func main() {
	cfg, err := config.ParseSim(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	// stdout carries the CSV table; logs go to stderr.
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		slog.Error("configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	simCfg := cfg.Engine()
	if err := simCfg.Validate(); err != nil {
		slog.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	// ── Weather ───────────────────────────────────────────────────────
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.ClockSeed()
	}
	src, err := entropy.New(cfg.Noise, seed)
	if err != nil {
		slog.Error("configure weather noise", "error", err)
		os.Exit(1)
	}
	slog.Info("weather seeded", "noise", cfg.Noise, "seed", seed)

	// ── Output ────────────────────────────────────────────────────────
	sinks := report.Multi{report.NewCSV(os.Stdout)}

	var runLog *persistence.RunLog
	if cfg.DBPath != "" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			os.MkdirAll(dir, 0755)
		}
		db, err := persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runLog, err = db.StartRun(simCfg, seed, cfg.Noise)
		if err != nil {
			slog.Error("failed to log run", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, runLog)
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim, err := engine.New(simCfg, src, sinks)
	if err != nil {
		slog.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	res, runErr := sim.Run()

	if runLog != nil {
		if err := runLog.Finish(res.Steps); err != nil {
			slog.Error("failed to close run log", "error", err)
		} else {
			slog.Info("run saved",
				"id", runLog.ID(),
				"months", humanize.Comma(int64(res.Steps)),
			)
		}
	}

	if runErr != nil {
		slog.Error("simulation output failed", "error", runErr)
		os.Exit(1)
	}
}
