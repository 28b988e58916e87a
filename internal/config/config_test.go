package config

import (
	"bytes"
	"context"
	"flag"
	"log/slog"
	"strings"
	"testing"
)

func TestParseSim_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("graindeer", flag.ContinueOnError)

	cfg, err := ParseSim(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	ec := cfg.Engine()
	if ec.Agents != 3 || ec.StartYear != 2017 || ec.StopYear != 2023 {
		t.Fatalf("engine config = %+v", ec)
	}
	if ec.GrainHeight != 1 || ec.Deer != 1 || ec.Gas != 0 {
		t.Fatalf("initial values = %+v", ec)
	}
	if cfg.Noise != "uniform" {
		t.Fatalf("noise = %q, want %q", cfg.Noise, "uniform")
	}
	if cfg.DBPath != "" {
		t.Fatalf("db path = %q, want empty", cfg.DBPath)
	}
}

func TestParseSim_EnvThenFlags(t *testing.T) {
	fs := flag.NewFlagSet("graindeer", flag.ContinueOnError)
	t.Setenv("GRAINDEER_AGENTS", "4")
	t.Setenv("GRAINDEER_STOP_YEAR", "2030")
	t.Setenv("GRAINDEER_SEED", "77")

	cfg, err := ParseSim(fs, []string{"-stop-year", "2019", "-noise", "none"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Agents != 4 {
		t.Fatalf("agents = %d, want 4", cfg.Agents)
	}
	if cfg.StopYear != 2019 {
		t.Fatalf("stop year = %d, want 2019", cfg.StopYear)
	}
	if cfg.Seed != 77 {
		t.Fatalf("seed = %d, want 77", cfg.Seed)
	}
	if cfg.Noise != "none" {
		t.Fatalf("noise = %q, want %q", cfg.Noise, "none")
	}
}

func TestParseSim_BadEnv(t *testing.T) {
	fs := flag.NewFlagSet("graindeer", flag.ContinueOnError)
	t.Setenv("GRAINDEER_AGENTS", "three")

	if _, err := ParseSim(fs, nil); err == nil {
		t.Fatal("expected error for non-numeric agents")
	}
}

func TestParseBench(t *testing.T) {
	fs := flag.NewFlagSet("phasebench", flag.ContinueOnError)
	t.Setenv("GRAINDEER_TRIALS", "5")

	cfg, err := ParseBench(fs, []string{"-stable", "-agents", "4"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Trials != 5 || !cfg.Stable || cfg.MaxAttempts != 256 {
		t.Fatalf("bench config = %+v", cfg)
	}
	if cfg.Agents != 4 {
		t.Fatalf("agents = %d, want 4", cfg.Agents)
	}
}

func TestParseAPI(t *testing.T) {
	fs := flag.NewFlagSet("almanac", flag.ContinueOnError)
	t.Setenv("GRAINDEER_API_PORT", "9090")

	cfg, err := ParseAPI(fs, []string{"-db", "/tmp/x.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("output = %q", out)
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error level disabled")
	}

	if _, err := NewLogger(&buf, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
