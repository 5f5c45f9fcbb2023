package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS incidents (
	id             TEXT PRIMARY KEY,
	occurred_at    DATETIME NOT NULL,
	latitude       REAL NOT NULL,
	longitude      REAL NOT NULL,
	city           TEXT NOT NULL,
	crime_category TEXT NOT NULL,
	description    TEXT NOT NULL,
	loaded_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS training_runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	input_rows  INTEGER NOT NULL,
	train_rows  INTEGER NOT NULL,
	test_rows   INTEGER NOT NULL,
	trees       INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	accuracy    REAL NOT NULL,
	model_path  TEXT NOT NULL,
	report      TEXT
);

CREATE INDEX IF NOT EXISTS idx_incidents_city ON incidents(city);
CREATE INDEX IF NOT EXISTS idx_incidents_category ON incidents(crime_category);
CREATE INDEX IF NOT EXISTS idx_training_runs_started_at ON training_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveIncidents inserts incidents not already present and returns how many
// were new.
func (s *SQLiteStore) SaveIncidents(ctx context.Context, incs []model.Incident) (int64, error) {
	if len(incs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO incidents
		(id, occurred_at, latitude, longitude, city, crime_category, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert incident")
	}
	defer stmt.Close()

	var inserted int64
	for i, key := range incidentKeys(incs) {
		inc := incs[i]
		res, err := stmt.ExecContext(ctx, key, inc.Datetime, inc.Latitude, inc.Longitude,
			string(inc.City), string(inc.Category), inc.Description)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert incident %d", i)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: rows affected")
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit incidents")
	}
	return inserted, nil
}

func (s *SQLiteStore) CountIncidents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count incidents")
	}
	return n, nil
}

// RecordRun inserts run, assigning an ID when it has none.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	var report *string
	if len(run.Report) > 0 {
		r := string(run.Report)
		report = &r
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_runs
			(id, started_at, finished_at, input_rows, train_rows, test_rows, trees, seed, accuracy, model_path, report)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.InputRows, run.TrainRows, run.TestRows,
		run.Trees, int64(run.Seed), run.Accuracy, run.ModelPath, report,
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_rows, train_rows, test_rows, trees, seed, accuracy, model_path, report
			FROM training_runs ORDER BY started_at DESC LIMIT ?`,
		runLimit(filter),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var (
		run      Run
		seed     int64
		report   sql.NullString
		started  time.Time
		finished time.Time
	)
	err := row.Scan(&run.ID, &started, &finished, &run.InputRows, &run.TrainRows, &run.TestRows,
		&run.Trees, &seed, &run.Accuracy, &run.ModelPath, &report)
	if err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}
	run.StartedAt = started.UTC()
	run.FinishedAt = finished.UTC()
	run.Seed = uint64(seed)
	if report.Valid {
		run.Report = []byte(report.String)
	}
	return &run, nil
}
