// Package history persists a per-attempt audit trail of city discovery runs.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run is one recorded city discovery attempt.
type Run struct {
	ID         string
	Region     string
	City       string
	State      string
	Status     string
	Records    int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Store records run attempts in SQLite.
type Store struct {
	db *sql.DB
}

// New opens the history database at the given path and configures WAL mode.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "history: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	region      TEXT NOT NULL,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	records     INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_region ON runs(region);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// Migrate creates the schema if missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "history: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Start records a new running attempt and returns its id.
func (s *Store) Start(ctx context.Context, region, city, state string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, region, city, state, status, started_at) VALUES (?, ?, ?, ?, 'running', ?)`,
		id, region, city, state, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "history: insert run")
	}
	return id, nil
}

// Complete marks an attempt done with its record count.
func (s *Store) Complete(ctx context.Context, id string, records int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = 'done', records = ?, finished_at = ? WHERE id = ?`,
		records, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "history: complete run %s", id)
	}
	return checkRowsAffected(res, id)
}

// Fail marks an attempt failed with its error message.
func (s *Store) Fail(ctx context.Context, id, msg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = 'failed', error = ?, finished_at = ? WHERE id = ?`,
		msg, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "history: fail run %s", id)
	}
	return checkRowsAffected(res, id)
}

// List returns the most recent attempts, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, region, city, state, status, records, COALESCE(error, ''), started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Region, &r.City, &r.State, &r.Status,
			&r.Records, &r.Error, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "history: scan run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "history: iterate runs")
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "history: rows affected")
	}
	if n == 0 {
		return eris.Errorf("history: run %s not found", id)
	}
	return nil
}
