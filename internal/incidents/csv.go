// Package incidents reads and writes the cleaned, combined incident table.
package incidents

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
	"github.com/Prastabm/SafeLanes-Research/internal/tabular"
)

// DatetimeLayout is the timestamp format of the datetime column.
const DatetimeLayout = "2006-01-02 15:04:05"

// Column names of the cleaned table, in file order.
const (
	ColDatetime    = "datetime"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
	ColCity        = "city"
	ColCategory    = "crime_category"
	ColDescription = "description"
	ColPredicted   = "predicted_category"
)

// Columns is the header row of the cleaned table.
var Columns = []string{ColDatetime, ColLatitude, ColLongitude, ColCity, ColCategory, ColDescription}

// WriteCSV writes incidents as the cleaned table, header first.
func WriteCSV(w io.Writer, incs []model.Incident) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "incidents: write header")
	}
	for _, inc := range incs {
		if err := cw.Write(row(inc)); err != nil {
			return eris.Wrap(err, "incidents: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "incidents: flush")
}

// WriteFile creates path and writes the cleaned table to it.
func WriteFile(path string, incs []model.Incident) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "incidents: create file")
	}
	if err := WriteCSV(f, incs); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "incidents: close file")
}

// WritePredictions writes the cleaned table with a trailing predicted_category
// column. preds must be parallel to incs.
func WritePredictions(w io.Writer, incs []model.Incident, preds []model.Category) error {
	if len(incs) != len(preds) {
		return eris.Errorf("incidents: %d rows but %d predictions", len(incs), len(preds))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), Columns...), ColPredicted)); err != nil {
		return eris.Wrap(err, "incidents: write header")
	}
	for i, inc := range incs {
		if err := cw.Write(append(row(inc), string(preds[i]))); err != nil {
			return eris.Wrap(err, "incidents: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "incidents: flush")
}

func row(inc model.Incident) []string {
	return []string{
		inc.Datetime.Format(DatetimeLayout),
		strconv.FormatFloat(inc.Latitude, 'f', -1, 64),
		strconv.FormatFloat(inc.Longitude, 'f', -1, 64),
		string(inc.City),
		string(inc.Category),
		inc.Description,
	}
}

// ReadStats counts what happened to each data row.
type ReadStats struct {
	Read    int `json:"read"`
	Dropped int `json:"dropped"`
}

// ReadCSV parses a cleaned table for training. Rows with an empty category or
// description, or an unparseable datetime or coordinate, are dropped.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Incident, ReadStats, error) {
	return read(ctx, r, true)
}

// ReadUnlabeled parses a cleaned table whose crime_category column may be
// absent or blank, as when predicting categories for new incidents.
func ReadUnlabeled(ctx context.Context, r io.Reader) ([]model.Incident, ReadStats, error) {
	return read(ctx, r, false)
}

// ReadFile opens path and parses it with ReadCSV.
func ReadFile(ctx context.Context, path string) ([]model.Incident, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, eris.Wrap(err, "incidents: open file")
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

func read(ctx context.Context, r io.Reader, labeled bool) ([]model.Incident, ReadStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headerCh := make(chan []string, 1)
	rowCh, errCh := tabular.StreamCSV(ctx, r, tabular.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	required := []string{ColDatetime, ColLatitude, ColLongitude, ColCity, ColDescription}
	if labeled {
		required = append(required, ColCategory)
	}

	var (
		idx   map[string]int
		out   []model.Incident
		stats ReadStats
	)
	for rec := range rowCh {
		if idx == nil {
			var err error
			if idx, err = index(<-headerCh, required); err != nil {
				cancel()
				for range rowCh {
				}
				return nil, stats, err
			}
		}
		stats.Read++

		inc, ok := parseRow(idx, rec, labeled)
		if !ok {
			stats.Dropped++
			continue
		}
		out = append(out, inc)
	}
	if err := <-errCh; err != nil {
		return nil, stats, eris.Wrap(err, "incidents: read")
	}
	if idx == nil {
		select {
		case header := <-headerCh:
			if _, err := index(header, required); err != nil {
				return nil, stats, err
			}
		default:
			return nil, stats, eris.New("incidents: missing header row")
		}
	}
	return out, stats, nil
}

func index(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, eris.Errorf("incidents: missing column %q", name)
		}
	}
	return idx, nil
}

func parseRow(idx map[string]int, rec []string, labeled bool) (model.Incident, bool) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	ts, err := time.Parse(DatetimeLayout, field(ColDatetime))
	if err != nil {
		return model.Incident{}, false
	}
	lat, err := strconv.ParseFloat(field(ColLatitude), 64)
	if err != nil {
		return model.Incident{}, false
	}
	lon, err := strconv.ParseFloat(field(ColLongitude), 64)
	if err != nil {
		return model.Incident{}, false
	}

	inc := model.Incident{
		Datetime:    ts,
		Latitude:    lat,
		Longitude:   lon,
		City:        model.City(field(ColCity)),
		Category:    model.Category(field(ColCategory)),
		Description: field(ColDescription),
	}
	if !finite(lat) || !finite(lon) || inc.Description == "" || inc.City == "" {
		return model.Incident{}, false
	}
	if labeled && inc.Category == "" {
		return model.Incident{}, false
	}
	return inc, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
