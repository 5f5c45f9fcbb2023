// Package source loads each city's raw crime export and normalizes it into
// the unified incident schema.
package source

import (
	"context"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// Stats counts what happened to the raw rows of one source file.
type Stats struct {
	Read       int `json:"read"`       // data rows in the file
	Filtered   int `json:"filtered"`   // rows removed by the outdoor filter
	Incomplete int `json:"incomplete"` // rows dropped for a missing unified field
	Emitted    int `json:"emitted"`    // rows returned as incidents
}

// Result holds the outcome of loading one source.
type Result struct {
	Incidents []model.Incident `json:"-"`
	Stats     Stats            `json:"stats"`
}

// Source defines the contract each city loader implements: given the dataset
// directory, produce complete incidents in file order.
type Source interface {
	// Name returns the unique identifier for this source (e.g., "baltimore").
	Name() string

	// City returns the city name attached to every emitted incident.
	City() model.City

	// File returns the raw export's file name inside the dataset directory.
	File() string

	// Load reads, filters, classifies, and validates the source's rows.
	// A missing or unreadable file is an error; malformed rows are dropped.
	Load(ctx context.Context, dir string) (*Result, error)
}
