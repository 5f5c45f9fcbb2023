package source

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/classify"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// record is one raw row after projection and renaming. Nil pointers and empty
// strings stand for values that were missing or failed to parse.
type record struct {
	datetime    *time.Time
	latitude    *float64
	longitude   *float64
	crimeType   string
	description string
}

// incident classifies the record, attaches the city, and reports whether the
// result is complete. Incomplete records must be dropped.
func (r record) incident(city model.City) (model.Incident, bool) {
	category := classify.NormalizeCategory(r.crimeType, r.description)
	if r.datetime == nil || r.latitude == nil || r.longitude == nil || r.description == "" {
		return model.Incident{}, false
	}
	inc := model.Incident{
		Datetime:    *r.datetime,
		Latitude:    *r.latitude,
		Longitude:   *r.longitude,
		City:        city,
		Category:    category,
		Description: r.description,
	}
	return inc, inc.Valid()
}

// collector accumulates emitted incidents and the matching statistics.
type collector struct {
	city  model.City
	out   []model.Incident
	stats Stats
}

func (c *collector) filtered() { c.stats.Filtered++ }

func (c *collector) add(r record) {
	inc, ok := r.incident(c.city)
	if !ok {
		c.stats.Incomplete++
		return
	}
	c.out = append(c.out, inc)
}

func (c *collector) result(read int) *Result {
	c.stats.Read = read
	c.stats.Emitted = len(c.out)
	return &Result{Incidents: c.out, Stats: c.stats}
}

// openInput opens name relative to dir unless name is already absolute.
func openInput(ctx context.Context, dir, name string) (*os.File, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	path := Path(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// Path resolves name against the dataset directory unless it is absolute.
func Path(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
