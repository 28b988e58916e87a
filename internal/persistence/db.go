// Package persistence provides a SQLite log of simulation runs and their
// monthly rows.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/graindeer/internal/engine"
)

// ErrRunNotFound is returned when a run id is not in the log.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for the run log.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writes come from a single reporter goroutine; one connection keeps
	// SQLite from returning SQLITE_BUSY to readers and writers in-process.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		seed INTEGER NOT NULL,
		noise TEXT NOT NULL,
		agents INTEGER NOT NULL,
		start_month INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		stop_year INTEGER NOT NULL,
		grain_height REAL NOT NULL,
		deer INTEGER NOT NULL,
		gas REAL NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS months (
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		temp REAL NOT NULL,
		precip REAL NOT NULL,
		height REAL NOT NULL,
		deer INTEGER NOT NULL,
		gas REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run describes one logged simulation run.
type Run struct {
	ID          string     `json:"id" db:"id"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	Seed        int64      `json:"seed" db:"seed"`
	Noise       string     `json:"noise" db:"noise"`
	Agents      int        `json:"agents" db:"agents"`
	StartMonth  int        `json:"start_month" db:"start_month"`
	StartYear   int        `json:"start_year" db:"start_year"`
	StopYear    int        `json:"stop_year" db:"stop_year"`
	GrainHeight float64    `json:"grain_height" db:"grain_height"`
	Deer        int        `json:"deer" db:"deer"`
	Gas         float64    `json:"gas" db:"gas"`
	Steps       int        `json:"steps" db:"steps"`
}

// StartRun records a new run and returns a sink that logs its rows.
func (db *DB) StartRun(cfg engine.Config, seed int64, noise string) (*RunLog, error) {
	run := Run{
		ID:          uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Seed:        seed,
		Noise:       noise,
		Agents:      cfg.Agents,
		StartMonth:  cfg.StartMonth,
		StartYear:   cfg.StartYear,
		StopYear:    cfg.StopYear,
		GrainHeight: cfg.GrainHeight,
		Deer:        cfg.Deer,
		Gas:         cfg.Gas,
	}

	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, started_at, seed, noise, agents, start_month, start_year, stop_year,
		 grain_height, deer, gas, steps)
		VALUES (:id, :started_at, :seed, :noise, :agents, :start_month, :start_year, :stop_year,
		 :grain_height, :deer, :gas, :steps)`, run)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	slog.Info("run logged", "id", run.ID)
	return &RunLog{db: db, run: run}, nil
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// Run returns one run by id.
func (db *DB) Run(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run %s: %w", id, err)
	}
	return run, nil
}

// Months returns the logged rows of a run in step order.
func (db *DB) Months(id string) ([]engine.Snapshot, error) {
	if _, err := db.Run(id); err != nil {
		return nil, err
	}
	var rows []engine.Snapshot
	err := db.conn.Select(&rows,
		`SELECT step, month, year, temp, precip, height, deer, gas
		 FROM months WHERE run_id = ? ORDER BY step`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("select months %s: %w", id, err)
	}
	return rows, nil
}
