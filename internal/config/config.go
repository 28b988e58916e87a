// Package config loads command configuration from GRAINDEER_* environment
// variables, then lets command-line flags override them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/graindeer/internal/engine"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// Sim configures a simulation run.
type Sim struct {
	Agents      int     `env:"GRAINDEER_AGENTS" envDefault:"3"`
	StartMonth  int     `env:"GRAINDEER_START_MONTH" envDefault:"0"`
	StartYear   int     `env:"GRAINDEER_START_YEAR" envDefault:"2017"`
	StopYear    int     `env:"GRAINDEER_STOP_YEAR" envDefault:"2023"`
	GrainHeight float64 `env:"GRAINDEER_GRAIN_HEIGHT" envDefault:"1"`
	Deer        int     `env:"GRAINDEER_DEER" envDefault:"1"`
	Gas         float64 `env:"GRAINDEER_GAS" envDefault:"0"`
	Seed        int64   `env:"GRAINDEER_SEED" envDefault:"0"`
	Noise       string  `env:"GRAINDEER_NOISE" envDefault:"uniform"`
	DBPath      string  `env:"GRAINDEER_DB_PATH"`
	LogLevel    string  `env:"GRAINDEER_LOG_LEVEL" envDefault:"info"`
}

// bind registers the simulation flags on fs, defaulting to the current values.
func (c *Sim) bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Agents, "agents", c.Agents, "concurrent agents (3, or 4 to add the greenhouse gas agent)")
	fs.IntVar(&c.StartMonth, "start-month", c.StartMonth, "first simulated month, 0-11")
	fs.IntVar(&c.StartYear, "start-year", c.StartYear, "first simulated year")
	fs.IntVar(&c.StopYear, "stop-year", c.StopYear, "simulation stops when this year is reached")
	fs.Float64Var(&c.GrainHeight, "grain-height", c.GrainHeight, "initial grain height in inches")
	fs.IntVar(&c.Deer, "deer", c.Deer, "initial graindeer population")
	fs.Float64Var(&c.Gas, "gas", c.Gas, "initial greenhouse gas, percent over baseline")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "weather seed (0 = wall clock)")
	fs.StringVar(&c.Noise, "noise", c.Noise, "weather noise: uniform, simplex or none")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite run log path (empty disables logging)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// ParseSim parses environment and flags into Sim.
func ParseSim(fs *flag.FlagSet, args []string) (Sim, error) {
	var cfg Sim
	if err := ParseEnv(&cfg); err != nil {
		return Sim{}, err
	}
	cfg.bind(fs)
	if err := ParseArgs(fs, args); err != nil {
		return Sim{}, err
	}
	return cfg, nil
}

// Engine returns the starting conditions for the engine.
func (c Sim) Engine() engine.Config {
	return engine.Config{
		Agents:      c.Agents,
		StartMonth:  c.StartMonth,
		StartYear:   c.StartYear,
		StopYear:    c.StopYear,
		GrainHeight: c.GrainHeight,
		Deer:        c.Deer,
		Gas:         c.Gas,
	}
}

// Bench configures timed trials of the simulation.
type Bench struct {
	Sim
	Trials      int  `env:"GRAINDEER_TRIALS" envDefault:"10"`
	Stable      bool `env:"GRAINDEER_STABLE" envDefault:"false"`
	MaxAttempts int  `env:"GRAINDEER_MAX_ATTEMPTS" envDefault:"256"`
	Header      bool
}

// ParseBench parses environment and flags into Bench.
func ParseBench(fs *flag.FlagSet, args []string) (Bench, error) {
	var cfg Bench
	if err := ParseEnv(&cfg); err != nil {
		return Bench{}, err
	}
	cfg.Sim.bind(fs)
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "timed runs per batch")
	fs.BoolVar(&cfg.Stable, "stable", cfg.Stable, "repeat batches until peak is within 20% of average")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "batches to try before giving up in stable mode")
	fs.BoolVar(&cfg.Header, "header", false, "print the CSV header and exit")
	if err := ParseArgs(fs, args); err != nil {
		return Bench{}, err
	}
	return cfg, nil
}

// API configures the run history server.
type API struct {
	DBPath   string `env:"GRAINDEER_DB_PATH" envDefault:"data/graindeer.db"`
	Port     int    `env:"GRAINDEER_API_PORT" envDefault:"8080"`
	LogLevel string `env:"GRAINDEER_LOG_LEVEL" envDefault:"info"`
}

// ParseAPI parses environment and flags into API.
func ParseAPI(fs *flag.FlagSet, args []string) (API, error) {
	var cfg API
	if err := ParseEnv(&cfg); err != nil {
		return API{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite run log path")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := ParseArgs(fs, args); err != nil {
		return API{}, err
	}
	return cfg, nil
}

// NewLogger builds a text logger at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}
