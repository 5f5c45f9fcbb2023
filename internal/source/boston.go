package source

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

var bostonColumns = []string{"OCCURRED_ON_DATE", "HOUR", "Lat", "Long", "OFFENSE_CODE_GROUP", "OFFENSE_DESCRIPTION", "Location"}

// Boston loads Boston Police crime incident reports. Boston applies no outdoor filter.
type Boston struct {
	Encoding string
}

func (s *Boston) Name() string     { return "boston" }
func (s *Boston) City() model.City { return model.CityBoston }
func (s *Boston) File() string     { return "boston.csv" }

func (s *Boston) Load(ctx context.Context, dir string) (*Result, error) {
	f, err := openInput(ctx, dir, s.File())
	if err != nil {
		return nil, eris.Wrap(err, "boston")
	}
	defer f.Close()

	return s.parse(ctx, f)
}

func (s *Boston) parse(ctx context.Context, r io.Reader) (*Result, error) {
	c := &collector{city: s.City()}
	n, err := scanCSV(ctx, r, s.Encoding, bostonColumns, func(cols columns, row []string) {
		c.add(record{
			datetime:    bostonDatetime(cols.get(row, "OCCURRED_ON_DATE"), cols.get(row, "HOUR")),
			latitude:    parseFloat(cols.get(row, "Lat")),
			longitude:   parseFloat(cols.get(row, "Long")),
			crimeType:   cols.get(row, "OFFENSE_CODE_GROUP"),
			description: cols.get(row, "OFFENSE_DESCRIPTION"),
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "boston: parse")
	}
	return c.result(n), nil
}

// bostonDatetime adds the HOUR column to the parsed occurrence timestamp. The
// offset applies even when OCCURRED_ON_DATE already carries a time of day, so
// "2018-09-02 13:00:00" with HOUR 13 becomes 2018-09-03 02:00.
func bostonDatetime(date, hour string) *time.Time {
	day := parseDatetime(date)
	h := parseFloat(hour)
	if day == nil || h == nil {
		return nil
	}
	t := day.Add(time.Duration(*h * float64(time.Hour)))
	return &t
}
