package engine

import (
	"fmt"

	"github.com/talgya/graindeer/internal/weather"
)

// State is the shared world of one run. After the roles start, each field
// has exactly one writer:
//
//	Month, Year, Weather  reporter
//	Deer                  population
//	Height                growth
//	Gas                   gas
//
// Writes happen only between the compute and assign barriers (or, for the
// reporter, between the assign and print barriers), so no role ever reads
// a half-updated step.
type State struct {
	Month   int
	Year    int
	Deer    int
	Height  float64 // inches, never negative
	Gas     float64 // percent over baseline, never below GasFloor
	Weather weather.Conditions
}

// advance moves the calendar forward one month.
func (s *State) advance() {
	s.Month++
	if s.Month == 12 {
		s.Month = 0
		s.Year++
	}
}

// Snapshot is a copy of the state as printed for one step.
type Snapshot struct {
	Step   int     `json:"step" db:"step"` // 1-based
	Month  int     `json:"month" db:"month"`
	Year   int     `json:"year" db:"year"`
	Temp   float64 `json:"temp" db:"temp"`     // degF
	Precip float64 `json:"precip" db:"precip"` // inches
	Height float64 `json:"height" db:"height"` // inches
	Deer   int     `json:"deer" db:"deer"`
	Gas    float64 `json:"gas" db:"gas"`
}

func (s *State) snapshot(step int) Snapshot {
	return Snapshot{
		Step:   step,
		Month:  s.Month,
		Year:   s.Year,
		Temp:   s.Weather.Temp,
		Precip: s.Weather.Precip,
		Height: s.Height,
		Deer:   s.Deer,
		Gas:    s.Gas,
	}
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of a 0-based month.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return "Unknown"
	}
	return monthNames[month]
}

// SimTime formats a calendar position for logs.
func SimTime(month, year int) string {
	return fmt.Sprintf("%s %d", MonthName(month), year)
}
