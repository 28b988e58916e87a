// Package engine runs the grain/graindeer simulation as a fixed set of
// concurrent roles stepping in lockstep through a cyclic barrier.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/graindeer/internal/entropy"
	"github.com/talgya/graindeer/internal/weather"
)

// Role names a concurrent participant of the simulation.
type Role string

// The fixed set of roles.
const (
	RolePopulation Role = "population"
	RoleGrowth     Role = "growth"
	RoleGas        Role = "gas"
	RoleReporter   Role = "reporter"
)

// Sink receives the printed rows of a run.
type Sink interface {
	Header(withGas bool) error
	Row(Snapshot) error
}

// Simulation holds one run's configuration and shared state.
type Simulation struct {
	cfg   Config
	state State
	src   entropy.Source // Drawn from by the reporter only
	sink  Sink
}

// Result summarizes a finished run.
type Result struct {
	Steps      int          `json:"steps"`
	Iterations map[Role]int `json:"iterations"`
	Final      Snapshot     `json:"final"`
}

// New validates cfg, seeds the state and draws the first month's weather.
func New(cfg Config, src entropy.Source, sink Sink) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: noise source is required", ErrInvalidConfig)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is required", ErrInvalidConfig)
	}
	if cfg.Agents > MaxAgents {
		slog.Warn("agent count above role count, extra agents ignored",
			"agents", cfg.Agents,
			"roles", MaxAgents,
		)
	}

	s := &Simulation{
		cfg: cfg,
		state: State{
			Month:  cfg.StartMonth,
			Year:   cfg.StartYear,
			Deer:   cfg.Deer,
			Height: cfg.GrainHeight,
			Gas:    cfg.Gas,
		},
		src:  src,
		sink: sink,
	}
	s.state.Weather = weather.Derive(s.state.Month, s.state.Gas, s.src)
	return s, nil
}

// Config returns the run configuration.
func (s *Simulation) Config() Config {
	return s.cfg
}

// State returns a copy of the shared state. It must not be called while
// Run is in progress.
func (s *Simulation) State() State {
	return s.state
}

// Roles returns the roles this run starts, reporter last.
func (s *Simulation) Roles() []Role {
	roles := []Role{RolePopulation, RoleGrowth}
	if s.cfg.GasEnabled() {
		roles = append(roles, RoleGas)
	}
	return append(roles, RoleReporter)
}

// done is the stop condition every role checks at the top of its loop.
// Year is written only by the reporter, between the assign and print
// barriers, so all roles read the same value here.
func (s *Simulation) done() bool {
	return s.state.Year >= s.cfg.StopYear
}
