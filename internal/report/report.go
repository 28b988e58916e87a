// Package report provides the output sinks for simulation rows.
package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/weather"
)

// Column headers of the CSV table.
var (
	Columns   = []string{"Month", "Year", "Temp (C)", "Precip (cm)", "Height (cm)", "NumDeer"}
	GasColumn = "CO2 Over Baseline (%)"
)

// CSV writes rows as comma-separated values in metric units.
type CSV struct {
	w       *csv.Writer
	withGas bool
}

// NewCSV creates a CSV sink writing to w.
func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

// Header writes the column header row.
func (c *CSV) Header(withGas bool) error {
	c.withGas = withGas
	header := append([]string(nil), Columns...)
	if withGas {
		header = append(header, GasColumn)
	}
	return c.write(header)
}

// Row writes one month.
func (c *CSV) Row(s engine.Snapshot) error {
	return c.write(Record(s, c.withGas))
}

func (c *CSV) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// Record formats a snapshot as CSV fields.
func Record(s engine.Snapshot, withGas bool) []string {
	rec := []string{
		strconv.Itoa(s.Month),
		strconv.Itoa(s.Year),
		formatFloat(weather.FahrenheitToCelsius(s.Temp)),
		formatFloat(weather.InchesToCentimeters(s.Precip)),
		formatFloat(weather.InchesToCentimeters(s.Height)),
		strconv.Itoa(s.Deer),
	}
	if withGas {
		rec = append(rec, formatFloat(s.Gas))
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Recorder keeps every row in memory. It is safe to read from other
// goroutines while a run is writing to it.
type Recorder struct {
	mu      sync.RWMutex
	withGas bool
	rows    []engine.Snapshot
}

// Header records whether the gas column is present.
func (r *Recorder) Header(withGas bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.withGas = withGas
	return nil
}

// Row appends s.
func (r *Recorder) Row(s engine.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, s)
	return nil
}

// Rows returns a copy of the recorded rows.
func (r *Recorder) Rows() []engine.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]engine.Snapshot(nil), r.rows...)
}

// Last returns the most recent row, if any.
func (r *Recorder) Last() (engine.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.rows) == 0 {
		return engine.Snapshot{}, false
	}
	return r.rows[len(r.rows)-1], true
}

// WithGas reports whether the run carries the gas column.
func (r *Recorder) WithGas() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.withGas
}

// Discard drops every row.
type Discard struct{}

func (Discard) Header(bool) error          { return nil }
func (Discard) Row(engine.Snapshot) error { return nil }

// Multi delivers every call to all sinks, returning their errors joined.
type Multi []engine.Sink

// Header forwards to every sink.
func (m Multi) Header(withGas bool) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Header(withGas))
	}
	return errors.Join(errs...)
}

// Row forwards to every sink.
func (m Multi) Row(snap engine.Snapshot) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Row(snap))
	}
	return errors.Join(errs...)
}
