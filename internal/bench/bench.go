// Package bench times repeated simulation runs and reports peak and
// average throughput in simulated steps per second.
package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/entropy"
	"github.com/talgya/graindeer/internal/report"
)

// ErrUnstable is returned when stable mode runs out of attempts.
var ErrUnstable = errors.New("no reliable timing")

// StableRatio is the peak/average ratio a batch must exceed to count as stable.
const StableRatio = 0.8

// Config controls a benchmark.
type Config struct {
	Sim         engine.Config
	Noise       string
	Seed        int64
	Trials      int  // Timed runs per batch
	Stable      bool // Repeat batches until StableRatio is met
	MaxAttempts int  // Batch limit in stable mode
}

// Result is the timing of the accepted batch.
type Result struct {
	Agents   int
	Steps    int           // Steps per run
	Trials   int           // Runs in the batch
	Attempts int           // Batches run
	Avg      time.Duration // Mean run time
	Peak     time.Duration // Fastest run time
}

// AvgStepsPerSec is the throughput of an average run.
func (r Result) AvgStepsPerSec() float64 {
	return perSecond(r.Steps, r.Avg)
}

// PeakStepsPerSec is the throughput of the fastest run.
func (r Result) PeakStepsPerSec() float64 {
	return perSecond(r.Steps, r.Peak)
}

func perSecond(steps int, d time.Duration) float64 {
	if d <= 0 {
		return math.Inf(1)
	}
	return float64(steps) / d.Seconds()
}

// Header is the CSV header matching Record.
var Header = []string{"Agents", "Steps", "Trials", "Avg Time (s)", "Avg Steps/s", "Peak Time (s)", "Peak Steps/s"}

// Record formats r as CSV fields.
func (r Result) Record() []string {
	return []string{
		strconv.Itoa(r.Agents),
		strconv.Itoa(r.Steps),
		strconv.Itoa(r.Trials),
		strconv.FormatFloat(r.Avg.Seconds(), 'f', 9, 64),
		strconv.FormatFloat(r.AvgStepsPerSec(), 'f', 2, 64),
		strconv.FormatFloat(r.Peak.Seconds(), 'f', 9, 64),
		strconv.FormatFloat(r.PeakStepsPerSec(), 'f', 2, 64),
	}
}

// Runner executes benchmarks.
type Runner struct {
	now func() time.Time
}

// NewRunner creates a runner timed by the wall clock.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// Run times cfg.Trials simulations per batch. In stable mode batches are
// repeated until the fastest run is within 20% of the average.
func (r *Runner) Run(cfg Config) (Result, error) {
	if cfg.Trials < 1 {
		return Result{}, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if err := cfg.Sim.Validate(); err != nil {
		return Result{}, err
	}
	if _, err := entropy.New(cfg.Noise, cfg.Seed); err != nil {
		return Result{}, err
	}
	maxAttempts := 1
	if cfg.Stable {
		maxAttempts = max(cfg.MaxAttempts, 1)
	}

	var res Result
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		batch, err := r.batch(cfg)
		if err != nil {
			return Result{}, err
		}
		batch.Attempts = attempt
		res = batch

		ratio := float64(batch.Peak) / float64(batch.Avg)
		slog.Debug("bench batch",
			"attempt", attempt,
			"avg", batch.Avg,
			"peak", batch.Peak,
			"ratio", fmt.Sprintf("%.3f", ratio),
		)
		if !cfg.Stable || ratio > StableRatio {
			slog.Info("bench finished",
				"trials", res.Trials,
				"steps", humanize.Comma(int64(res.Steps*res.Trials)),
				"avg", humanize.SIWithDigits(res.AvgStepsPerSec(), 2, "steps/s"),
				"peak", humanize.SIWithDigits(res.PeakStepsPerSec(), 2, "steps/s"),
			)
			return res, nil
		}
	}
	return res, fmt.Errorf("%w after %d attempts", ErrUnstable, res.Attempts)
}

func (r *Runner) batch(cfg Config) (Result, error) {
	res := Result{
		Agents: cfg.Sim.Agents,
		Trials: cfg.Trials,
		Peak:   time.Duration(math.MaxInt64),
	}
	var total time.Duration
	for i := 0; i < cfg.Trials; i++ {
		src, err := entropy.New(cfg.Noise, cfg.Seed)
		if err != nil {
			return Result{}, err
		}
		sim, err := engine.New(cfg.Sim, src, report.Discard{})
		if err != nil {
			return Result{}, err
		}

		t0 := r.now()
		out, err := sim.Run()
		elapsed := r.now().Sub(t0)
		if err != nil {
			return Result{}, fmt.Errorf("trial %d: %w", i+1, err)
		}

		res.Steps = out.Steps
		total += elapsed
		res.Peak = min(res.Peak, elapsed)
	}
	res.Avg = total / time.Duration(cfg.Trials)
	return res, nil
}
