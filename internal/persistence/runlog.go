package persistence

import (
	"fmt"
	"time"

	"github.com/talgya/graindeer/internal/engine"
)

// RunLog is the sink for one run. It is used from the reporter goroutine
// only.
type RunLog struct {
	db  *DB
	run Run
}

// ID returns the run id.
func (l *RunLog) ID() string {
	return l.run.ID
}

// Header is a no-op; the schema always stores the gas column.
func (l *RunLog) Header(bool) error {
	return nil
}

// Row inserts one month.
func (l *RunLog) Row(s engine.Snapshot) error {
	_, err := l.db.conn.Exec(`INSERT INTO months
		(run_id, step, month, year, temp, precip, height, deer, gas)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.run.ID, s.Step, s.Month, s.Year, s.Temp, s.Precip, s.Height, s.Deer, s.Gas,
	)
	if err != nil {
		return fmt.Errorf("insert month %d of run %s: %w", s.Step, l.run.ID, err)
	}
	return nil
}

// Finish marks the run complete.
func (l *RunLog) Finish(steps int) error {
	_, err := l.db.conn.Exec(
		"UPDATE runs SET finished_at = ?, steps = ? WHERE id = ?",
		time.Now().UTC(), steps, l.run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", l.run.ID, err)
	}
	return nil
}
