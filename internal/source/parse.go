package source

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// columns maps a header name to its index in each record.
type columns map[string]int

// mapColumns builds the column index for a header row. A UTF-8 byte order
// mark on the first column is ignored.
func mapColumns(header []string) columns {
	m := make(columns, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := m[col]; !dup {
			m[col] = i
		}
	}
	return m
}

// require returns an error naming the first missing column.
func (c columns) require(names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return eris.Errorf("missing column %q", name)
		}
	}
	return nil
}

// get returns the trimmed value of the named column, or "" if the record is short.
func (c columns) get(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// datetimeLayouts are the timestamp shapes found across the four city exports.
var datetimeLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 1504",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05",
}

// parseDatetime parses a timestamp in any known layout. Zoned values keep
// their wall-clock reading. Returns nil when s is empty or unparseable.
func parseDatetime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		return &wall
	}
	return nil
}

// joinDatetime parses "<date> <time>" built from two columns. Both parts are required.
func joinDatetime(date, clock string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}
	return parseDatetime(date + " " + clock)
}

// parseFloat parses a decimal number, returning nil for empty, malformed, or NaN input.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// pointPattern matches the "(lat, lon)" form of Baltimore's Location 1 column.
var pointPattern = regexp.MustCompile(`\(([^,]+), ([^)]+)\)`)

// parsePoint extracts latitude and longitude from "(lat, lon)". Either value is
// nil if missing or non-numeric.
func parsePoint(s string) (lat, lon *float64) {
	m := pointPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	return parseFloat(m[1]), parseFloat(m[2])
}
