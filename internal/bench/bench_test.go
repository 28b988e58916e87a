package bench

import (
	"errors"
	"testing"
	"time"

	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/entropy"
)

// scriptedClock advances by the next scripted duration on every second
// call, so each trial measures exactly one entry of durs.
func scriptedClock(durs ...time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	calls := 0
	return func() time.Time {
		calls++
		if calls%2 == 0 {
			t = t.Add(durs[(calls/2-1)%len(durs)])
		}
		return t
	}
}

func shortConfig() Config {
	sim := engine.DefaultConfig()
	sim.StopYear = sim.StartYear + 1
	return Config{
		Sim:         sim,
		Noise:       entropy.KindNone,
		Trials:      4,
		MaxAttempts: 3,
	}
}

func TestRun_ReportsPeakAndAverage(t *testing.T) {
	r := &Runner{now: scriptedClock(2*time.Millisecond, 4*time.Millisecond)}

	res, err := r.Run(shortConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Steps != 12 {
		t.Fatalf("steps = %d, want 12", res.Steps)
	}
	if res.Peak != 2*time.Millisecond {
		t.Fatalf("peak = %v, want 2ms", res.Peak)
	}
	if res.Avg != 3*time.Millisecond {
		t.Fatalf("avg = %v, want 3ms", res.Avg)
	}
	if got := res.PeakStepsPerSec(); got != 6000 {
		t.Fatalf("peak steps/s = %v, want 6000", got)
	}
	if got := res.AvgStepsPerSec(); got != 4000 {
		t.Fatalf("avg steps/s = %v, want 4000", got)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
}

func TestRun_StableAcceptsSteadyTimings(t *testing.T) {
	cfg := shortConfig()
	cfg.Stable = true
	r := &Runner{now: scriptedClock(5 * time.Millisecond)}

	res, err := r.Run(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
}

func TestRun_StableGivesUp(t *testing.T) {
	cfg := shortConfig()
	cfg.Stable = true
	r := &Runner{now: scriptedClock(time.Millisecond, 10*time.Millisecond)}

	res, err := r.Run(cfg)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("run = %v, want ErrUnstable", err)
	}
	if res.Attempts != cfg.MaxAttempts {
		t.Fatalf("attempts = %d, want %d", res.Attempts, cfg.MaxAttempts)
	}
}

func TestRun_RejectsBadConfig(t *testing.T) {
	r := NewRunner()

	cfg := shortConfig()
	cfg.Trials = 0
	if _, err := r.Run(cfg); err == nil {
		t.Fatal("expected error for zero trials")
	}

	cfg = shortConfig()
	cfg.Sim.Agents = 2
	if _, err := r.Run(cfg); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Fatalf("run = %v, want ErrInvalidConfig", err)
	}

	cfg = shortConfig()
	cfg.Noise = "pink"
	if _, err := r.Run(cfg); err == nil {
		t.Fatal("expected error for unknown noise")
	}
}

func TestRun_WallClock(t *testing.T) {
	cfg := shortConfig()
	cfg.Sim.Agents = 4
	cfg.Trials = 2

	res, err := NewRunner().Run(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Peak <= 0 || res.Avg < res.Peak {
		t.Fatalf("peak = %v, avg = %v", res.Peak, res.Avg)
	}
	if rec := res.Record(); len(rec) != len(Header) {
		t.Fatalf("record fields = %d, header fields = %d", len(rec), len(Header))
	}
}
