package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every startup validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Role counts.
const (
	MinAgents = 3 // population, growth, reporter
	MaxAgents = 4 // plus greenhouse gas
)

// GasFloor is the lowest greenhouse-gas level; not all gas can be removed.
const GasFloor = -99.0

// Config holds the starting conditions of a run.
type Config struct {
	Agents      int     // 3 runs the base roles, 4 or more adds the gas role
	StartMonth  int     // 0-11
	StartYear   int     // Calendar year of the first step
	StopYear    int     // Simulation stops when this year is reached
	GrainHeight float64 // Initial grain height, inches
	Deer        int     // Initial graindeer population
	Gas         float64 // Initial greenhouse gas, percent over baseline
}

// DefaultConfig returns the classic six-year, three-agent run.
func DefaultConfig() Config {
	return Config{
		Agents:      MinAgents,
		StartMonth:  0,
		StartYear:   2017,
		StopYear:    2023,
		GrainHeight: 1,
		Deer:        1,
		Gas:         0,
	}
}

// GasEnabled reports whether the optional greenhouse-gas role runs.
func (c Config) GasEnabled() bool {
	return c.Agents > MinAgents
}

// Validate rejects configurations the simulation cannot start from.
func (c Config) Validate() error {
	switch {
	case c.Agents < MinAgents:
		return fmt.Errorf("%w: need at least %d agents, got %d", ErrInvalidConfig, MinAgents, c.Agents)
	case c.StartYear >= c.StopYear:
		return fmt.Errorf("%w: start year %d has already reached stop year %d", ErrInvalidConfig, c.StartYear, c.StopYear)
	case c.StartMonth < 0 || c.StartMonth > 11:
		return fmt.Errorf("%w: start month %d outside 0-11", ErrInvalidConfig, c.StartMonth)
	case c.GrainHeight < 0:
		return fmt.Errorf("%w: negative grain height %v", ErrInvalidConfig, c.GrainHeight)
	case c.Deer < 0:
		return fmt.Errorf("%w: negative deer population %d", ErrInvalidConfig, c.Deer)
	case c.Gas < GasFloor:
		return fmt.Errorf("%w: gas %v below floor %v", ErrInvalidConfig, c.Gas, GasFloor)
	}
	return nil
}
