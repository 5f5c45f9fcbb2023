package source

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/classify"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

var baltimoreColumns = []string{"CrimeDate", "CrimeTime", "Location 1", "Description", "Location", "CrimeCode"}

// Baltimore loads Baltimore Police Part 1 victim-based crime data. Only rows
// whose description carries the outdoor "/O" code are kept, and the bare
// CrimeCode is enriched through the crime-code lookup before classification.
type Baltimore struct {
	Encoding     string
	CodeMap      string // lookup file, relative to the dataset directory unless absolute
	CodeMapSheet string // sheet to read when CodeMap is a workbook
}

func (s *Baltimore) Name() string     { return "baltimore" }
func (s *Baltimore) City() model.City { return model.CityBaltimore }
func (s *Baltimore) File() string     { return "baltimore.csv" }

func (s *Baltimore) Load(ctx context.Context, dir string) (*Result, error) {
	codes, err := LoadCodeMap(ctx, Path(dir, s.CodeMap), s.CodeMapSheet)
	if err != nil {
		return nil, eris.Wrap(err, "baltimore: load crime codes")
	}
	zap.L().Debug("loaded crime codes", zap.String("source", s.Name()), zap.Int("codes", len(codes)))

	f, err := openInput(ctx, dir, s.File())
	if err != nil {
		return nil, eris.Wrap(err, "baltimore")
	}
	defer f.Close()

	return s.parse(ctx, f, codes)
}

func (s *Baltimore) parse(ctx context.Context, r io.Reader, codes CodeMap) (*Result, error) {
	c := &collector{city: s.City()}
	n, err := scanCSV(ctx, r, s.Encoding, baltimoreColumns, func(cols columns, row []string) {
		lat, lon := parsePoint(cols.get(row, "Location 1"))
		description := cols.get(row, "Description")

		if !classify.HasOutdoorCode(description) {
			c.filtered()
			return
		}

		c.add(record{
			datetime:    joinDatetime(cols.get(row, "CrimeDate"), cols.get(row, "CrimeTime")),
			latitude:    lat,
			longitude:   lon,
			crimeType:   codes.Lookup(cols.get(row, "CrimeCode")),
			description: description,
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "baltimore: parse")
	}
	return c.result(n), nil
}
