package source

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/classify"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

var newYorkColumns = []string{"CMPLNT_FR_DT", "CMPLNT_FR_TM", "Latitude", "Longitude", "LAW_CAT_CD", "OFNS_DESC", "PREM_TYP_DESC"}

// NewYork loads NYPD complaint data, keeping complaints whose premises type is outdoors.
type NewYork struct {
	Encoding string
}

func (s *NewYork) Name() string     { return "new_york" }
func (s *NewYork) City() model.City { return model.CityNewYork }
func (s *NewYork) File() string     { return "new_york.csv" }

func (s *NewYork) Load(ctx context.Context, dir string) (*Result, error) {
	f, err := openInput(ctx, dir, s.File())
	if err != nil {
		return nil, eris.Wrap(err, "new_york")
	}
	defer f.Close()

	return s.parse(ctx, f)
}

func (s *NewYork) parse(ctx context.Context, r io.Reader) (*Result, error) {
	c := &collector{city: s.City()}
	n, err := scanCSV(ctx, r, s.Encoding, newYorkColumns, func(cols columns, row []string) {
		if !classify.IsOutdoor(cols.get(row, "PREM_TYP_DESC")) {
			c.filtered()
			return
		}

		c.add(record{
			datetime:    joinDatetime(cols.get(row, "CMPLNT_FR_DT"), cols.get(row, "CMPLNT_FR_TM")),
			latitude:    parseFloat(cols.get(row, "Latitude")),
			longitude:   parseFloat(cols.get(row, "Longitude")),
			crimeType:   cols.get(row, "LAW_CAT_CD"),
			description: cols.get(row, "OFNS_DESC"),
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "new_york: parse")
	}
	return c.result(n), nil
}
