// Package store persists cleaned incidents and training-run records.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// Supported store drivers.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Run is one recorded training run.
type Run struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	InputRows  int             `json:"input_rows"`
	TrainRows  int             `json:"train_rows"`
	TestRows   int             `json:"test_rows"`
	Trees      int             `json:"trees"`
	Seed       uint64          `json:"seed"`
	Accuracy   float64         `json:"accuracy"`
	ModelPath  string          `json:"model_path"`
	Report     json.RawMessage `json:"report,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit int `json:"limit,omitempty"`
}

// Store defines the persistence interface for incidents and training runs.
type Store interface {
	// Incidents
	SaveIncidents(ctx context.Context, incs []model.Incident) (int64, error)
	CountIncidents(ctx context.Context) (int64, error)

	// Training runs
	RecordRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store selected by cfg.Driver. The "none" driver discards
// everything.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverSQLite:
		return NewSQLite(cfg.DatabaseURL)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// Nop is a Store that keeps nothing.
type Nop struct{}

func (Nop) SaveIncidents(context.Context, []model.Incident) (int64, error) { return 0, nil }
func (Nop) CountIncidents(context.Context) (int64, error)                  { return 0, nil }
func (Nop) RecordRun(context.Context, *Run) error                          { return nil }
func (Nop) ListRuns(context.Context, RunFilter) ([]Run, error)             { return nil, nil }
func (Nop) Migrate(context.Context) error                                  { return nil }
func (Nop) Close() error                                                   { return nil }

const defaultRunLimit = 20

func runLimit(f RunFilter) int {
	if f.Limit <= 0 {
		return defaultRunLimit
	}
	return f.Limit
}
