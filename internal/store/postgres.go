package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/db"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// PostgresStore implements Store using pgxpool and PostGIS.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := poolConfig(connString, poolCfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// poolConfig parses connString and applies the pool limits, falling back to
// 4 max and 1 min connections for unset values.
func poolConfig(connString string, poolCfg *PoolConfig) (*pgxpool.Config, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	return pgxCfg, nil
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;
CREATE SCHEMA IF NOT EXISTS safelanes;

CREATE TABLE IF NOT EXISTS safelanes.incidents (
	id             TEXT PRIMARY KEY,
	occurred_at    TIMESTAMP NOT NULL,
	latitude       DOUBLE PRECISION NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	city           TEXT NOT NULL,
	crime_category TEXT NOT NULL,
	description    TEXT NOT NULL,
	geom           geometry(Point, 4326),
	loaded_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_incidents_city ON safelanes.incidents(city);
CREATE INDEX IF NOT EXISTS idx_incidents_category ON safelanes.incidents(crime_category);
CREATE INDEX IF NOT EXISTS idx_incidents_geom ON safelanes.incidents USING GIST (geom);

CREATE TABLE IF NOT EXISTS safelanes.training_runs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	input_rows  INTEGER NOT NULL,
	train_rows  INTEGER NOT NULL,
	test_rows   INTEGER NOT NULL,
	trees       INTEGER NOT NULL,
	seed        BIGINT NOT NULL,
	accuracy    DOUBLE PRECISION NOT NULL,
	model_path  TEXT NOT NULL,
	report      JSONB
);

CREATE INDEX IF NOT EXISTS idx_training_runs_started_at ON safelanes.training_runs(started_at DESC);
`

const incidentsTable = "safelanes.incidents"

var incidentColumns = []string{
	"id", "occurred_at", "latitude", "longitude", "city", "crime_category", "description", "geom",
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveIncidents stages incidents with COPY and merges them into
// safelanes.incidents, skipping ones already loaded. Each row carries its
// location as a PostGIS point.
func (s *PostgresStore) SaveIncidents(ctx context.Context, incs []model.Incident) (int64, error) {
	if len(incs) == 0 {
		return 0, nil
	}

	keys := incidentKeys(incs)
	rows := make([][]any, len(incs))
	for i, inc := range incs {
		point, err := pointEWKB(inc.Latitude, inc.Longitude)
		if err != nil {
			return 0, err
		}
		rows[i] = []any{
			keys[i], inc.Datetime, inc.Latitude, inc.Longitude,
			string(inc.City), string(inc.Category), inc.Description, point,
		}
	}

	n, err := db.BulkInsertNew(ctx, s.pool, db.InsertConfig{
		Table:        incidentsTable,
		Columns:      incidentColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save incidents")
	}

	zap.L().Info("postgres: saved incidents",
		zap.Int("rows", len(incs)),
		zap.Int64("inserted", n),
	)
	return n, nil
}

func (s *PostgresStore) CountIncidents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM safelanes.incidents`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: count incidents")
	}
	return n, nil
}

// RecordRun inserts run, assigning an ID when it has none.
func (s *PostgresStore) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	var report *string
	if len(run.Report) > 0 {
		r := string(run.Report)
		report = &r
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO safelanes.training_runs
			(id, started_at, finished_at, input_rows, train_rows, test_rows, trees, seed, accuracy, model_path, report)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.StartedAt, run.FinishedAt, run.InputRows, run.TrainRows, run.TestRows,
		run.Trees, int64(run.Seed), run.Accuracy, run.ModelPath, report,
	)
	return eris.Wrapf(err, "postgres: insert run %s", run.ID)
}

// ListRuns returns the most recent runs first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, started_at, finished_at, input_rows, train_rows, test_rows, trees, seed, accuracy, model_path, report::text
			FROM safelanes.training_runs ORDER BY started_at DESC LIMIT $1`,
		runLimit(filter),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
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
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
