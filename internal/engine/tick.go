package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/graindeer/internal/barrier"
	"github.com/talgya/graindeer/internal/weather"
)

// Run starts one goroutine per role and blocks until every role has seen
// the stop year. Each step crosses three barriers:
//
//  1. computed: every role has its next value in a local
//  2. assigned: every role has published its local into the state
//  3. printed:  the reporter has emitted the row, advanced the calendar
//     and redrawn the weather
//
// A sink failure does not stop the run, since a role leaving early would
// strand the others at the barrier. The first sink error is returned once
// all roles have finished.
func (s *Simulation) Run() (Result, error) {
	if err := s.sink.Header(s.cfg.GasEnabled()); err != nil {
		return Result{}, fmt.Errorf("write header: %w", err)
	}

	roles := s.Roles()
	b := barrier.New(len(roles))
	iterations := make([]int, len(roles))
	var sinkErr error

	slog.Info("simulation started",
		"roles", len(roles),
		"gas", s.cfg.GasEnabled(),
		"from", SimTime(s.state.Month, s.state.Year),
		"stop_year", s.cfg.StopYear,
	)
	start := time.Now()

	var wg sync.WaitGroup
	for i, role := range roles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch role {
			case RolePopulation:
				iterations[i] = s.runPopulation(b)
			case RoleGrowth:
				iterations[i] = s.runGrowth(b)
			case RoleGas:
				iterations[i] = s.runGas(b)
			case RoleReporter:
				iterations[i], sinkErr = s.runReporter(b)
			}
		}()
	}
	wg.Wait()

	res := Result{
		Iterations: make(map[Role]int, len(roles)),
		Final:      s.state.snapshot(0),
	}
	for i, role := range roles {
		res.Iterations[role] = iterations[i]
	}
	res.Steps = res.Iterations[RoleReporter]
	res.Final.Step = res.Steps

	slog.Info("simulation finished",
		"steps", res.Steps,
		"deer", s.state.Deer,
		"height", fmt.Sprintf("%.3f", s.state.Height),
		"elapsed", time.Since(start),
	)

	if sinkErr != nil {
		return res, fmt.Errorf("write row: %w", sinkErr)
	}
	return res, nil
}

// runPhased drives a role that owns one state field. compute runs before
// the first barrier and returns the publish step, which runs before the
// second.
func (s *Simulation) runPhased(b *barrier.Barrier, compute func() (publish func())) int {
	n := 0
	for !s.done() {
		publish := compute()
		b.Wait() // computed

		publish()
		b.Wait() // assigned

		b.Wait() // printed
		n++
	}
	return n
}

func (s *Simulation) runPopulation(b *barrier.Barrier) int {
	return s.runPhased(b, func() func() {
		next := NextDeer(s.state.Deer, s.state.Height)
		return func() { s.state.Deer = next }
	})
}

func (s *Simulation) runGrowth(b *barrier.Barrier) int {
	return s.runPhased(b, func() func() {
		next := NextHeight(s.state.Height, s.state.Weather, s.state.Deer)
		return func() { s.state.Height = next }
	})
}

func (s *Simulation) runGas(b *barrier.Barrier) int {
	return s.runPhased(b, func() func() {
		delta := GasDelta(s.state.Deer, s.state.Height)
		return func() { s.state.Gas = ApplyGas(s.state.Gas, delta) }
	})
}

// runReporter emits each step's row, then advances the calendar and draws
// the next month's weather. The weather printed for a month is therefore
// the weather its growth was computed from.
func (s *Simulation) runReporter(b *barrier.Barrier) (int, error) {
	var firstErr error
	n := 0
	for !s.done() {
		b.Wait() // computed
		b.Wait() // assigned

		n++
		row := s.state.snapshot(n)
		if firstErr == nil {
			if err := s.sink.Row(row); err != nil {
				firstErr = err
				slog.Error("sink rejected row, continuing without output",
					"step", n,
					"error", err,
				)
			}
		}
		slog.Debug("step",
			"step", n,
			"time", SimTime(row.Month, row.Year),
			"season", SeasonName(SeasonOf(row.Month)),
			"deer", row.Deer,
			"height", fmt.Sprintf("%.3f", row.Height),
			"gas", fmt.Sprintf("%.3f", row.Gas),
		)

		s.state.advance()
		s.state.Weather = weather.Derive(s.state.Month, s.state.Gas, s.src)
		b.Wait() // printed
	}
	return n, firstErr
}
