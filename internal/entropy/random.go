// Package entropy provides the noise sources used for weather draws.
// A Source is owned by a single goroutine; none of the implementations lock.
package entropy

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise source names accepted by New.
const (
	KindUniform = "uniform"
	KindSimplex = "simplex"
	KindNone    = "none"
)

// Source produces floating values in [low, high).
type Source interface {
	Uniform(low, high float64) float64
}

// ClockSeed returns a seed derived from the wall clock.
func ClockSeed() int64 {
	return time.Now().UnixNano()
}

// New returns the source registered under kind, seeded with seed.
func New(kind string, seed int64) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindUniform, "":
		return NewRand(seed), nil
	case KindSimplex:
		return NewSimplex(seed), nil
	case KindNone:
		return Fixed(0), nil
	default:
		return nil, fmt.Errorf("unknown noise source %q (want %s, %s or %s)", kind, KindUniform, KindSimplex, KindNone)
	}
}

// Rand draws independent uniform values from a seeded math/rand generator.
type Rand struct {
	rng *rand.Rand
}

// NewRand creates a uniform source from seed.
func NewRand(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value in [low, high).
func (r *Rand) Uniform(low, high float64) float64 {
	return scale(r.rng.Float64(), low, high)
}

// Fixed always returns the same value, clamped into [low, high).
// Fixed(0) yields zero noise for any symmetric range.
type Fixed float64

// Uniform returns the fixed value clamped into [low, high).
func (f Fixed) Uniform(low, high float64) float64 {
	v := float64(f)
	if v < low || high <= low {
		return low
	}
	if v >= high {
		return math.Nextafter(high, low)
	}
	return v
}

// simplexStep is the distance travelled through the noise field per draw.
// Small steps give draws that drift rather than jump.
const simplexStep = 0.35

// Simplex draws coherent noise: consecutive draws are correlated, so the
// weather drifts from month to month instead of jumping.
type Simplex struct {
	noise opensimplex.Noise
	n     uint64 // Draws taken so far
}

// NewSimplex creates a coherent noise source from seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.NewNormalized(seed)}
}

// Uniform returns the next coherent sample mapped into [low, high).
func (s *Simplex) Uniform(low, high float64) float64 {
	x := float64(s.n) * simplexStep
	s.n++
	v := s.noise.Eval2(x, 0)
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	if v < 0 {
		v = 0
	}
	return scale(v, low, high)
}

// scale maps u in [0, 1) onto [low, high).
func scale(u, low, high float64) float64 {
	return low + u*(high-low)
}
