package source

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/classify"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

var losAngelesColumns = []string{"DATE OCC", "TIME OCC", "LAT", "LON", "Crm Cd Desc", "Premis Desc", "Part 1-2"}

// LosAngeles loads LAPD crime data, keeping incidents whose premises
// description is outdoors.
type LosAngeles struct {
	Encoding string
}

func (s *LosAngeles) Name() string     { return "los_angeles" }
func (s *LosAngeles) City() model.City { return model.CityLosAngeles }
func (s *LosAngeles) File() string     { return "los_angeles.csv" }

func (s *LosAngeles) Load(ctx context.Context, dir string) (*Result, error) {
	f, err := openInput(ctx, dir, s.File())
	if err != nil {
		return nil, eris.Wrap(err, "los_angeles")
	}
	defer f.Close()

	res, err := s.parse(ctx, f)
	if err != nil {
		return nil, err
	}
	zap.L().Info("outdoor filter",
		zap.String("source", s.Name()),
		zap.Int("before", res.Stats.Read),
		zap.Int("after", res.Stats.Read-res.Stats.Filtered),
	)
	return res, nil
}

func (s *LosAngeles) parse(ctx context.Context, r io.Reader) (*Result, error) {
	c := &collector{city: s.City()}
	n, err := scanCSV(ctx, r, s.Encoding, losAngelesColumns, func(cols columns, row []string) {
		if !classify.IsOutdoor(cols.get(row, "Premis Desc")) {
			c.filtered()
			return
		}

		c.add(record{
			datetime:    losAngelesDatetime(cols.get(row, "DATE OCC"), cols.get(row, "TIME OCC")),
			latitude:    parseFloat(cols.get(row, "LAT")),
			longitude:   parseFloat(cols.get(row, "LON")),
			crimeType:   cols.get(row, "Part 1-2"),
			description: cols.get(row, "Crm Cd Desc"),
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "los_angeles: parse")
	}
	return c.result(n), nil
}

// losAngelesDatetime combines the month/day/year date with the military time
// column. TIME OCC is left-padded to four digits; the first two are hours and
// the rest minutes ("5" → 00:05, "1230" → 12:30).
func losAngelesDatetime(date, clock string) *time.Time {
	fields := strings.Fields(date)
	if len(fields) == 0 || clock == "" {
		return nil
	}
	day, err := time.Parse("1/2/2006", fields[0])
	if err != nil {
		return nil
	}

	if len(clock) < 4 {
		clock = strings.Repeat("0", 4-len(clock)) + clock
	}
	hours, err := strconv.Atoi(clock[:2])
	if err != nil {
		return nil
	}
	minutes, err := strconv.Atoi(clock[2:])
	if err != nil {
		return nil
	}

	t := day.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
	return &t
}
