package incidents

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

func sample() []model.Incident {
	return []model.Incident{
		{
			Datetime:    time.Date(2016, 11, 12, 2, 35, 0, 0, time.UTC),
			Latitude:    39.29241,
			Longitude:   -76.61402,
			City:        model.CityBaltimore,
			Category:    model.CategoryTheft,
			Description: "ROBBERY - STREET/O",
		},
		{
			Datetime:    time.Date(2019, 12, 31, 17, 30, 0, 0, time.UTC),
			Latitude:    40.8,
			Longitude:   -73.9,
			City:        model.CityNewYork,
			Category:    model.CategoryAssault,
			Description: "ASSAULT 3, RELATED OFFENSES",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	want := "datetime,Latitude,Longitude,city,crime_category,description\n" +
		"2016-11-12 02:35:00,39.29241,-76.61402,Baltimore,Theft,ROBBERY - STREET/O\n" +
		"2019-12-31 17:30:00,40.8,-73.9,New York,Assault,\"ASSAULT 3, RELATED OFFENSES\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "datetime,Latitude,Longitude,city,crime_category,description\n", buf.String())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, WriteFile(path, sample()))

	got, stats, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ReadStats{Read: 2}, stats)
	assert.Equal(t, sample(), got)
}

func TestReadCSV_DropsIncompleteRows(t *testing.T) {
	input := `datetime,Latitude,Longitude,city,crime_category,description
2016-11-12 02:35:00,39.29,-76.61,Baltimore,Theft,ROBBERY - STREET/O
2016-11-12 02:35:00,39.29,-76.61,Baltimore,,ROBBERY - STREET/O
2016-11-12 02:35:00,39.29,-76.61,Baltimore,Theft,
not a date,39.29,-76.61,Baltimore,Theft,ROBBERY
2016-11-12 02:35:00,,-76.61,Baltimore,Theft,ROBBERY
2016-11-12 02:35:00,NaN,-76.61,Baltimore,Theft,ROBBERY
2016-11-12 02:35:00,39.29,-76.61,,Theft,ROBBERY
`
	got, stats, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, ReadStats{Read: 7, Dropped: 6}, stats)
	require.Len(t, got, 1)
	assert.Equal(t, model.CategoryTheft, got[0].Category)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	input := "datetime,Latitude,Longitude,city,description\n2016-11-12 02:35:00,39.29,-76.61,Baltimore,ROBBERY\n"
	_, _, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crime_category")
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	got, _, err := ReadCSV(context.Background(), strings.NewReader(strings.Join(Columns, ",")+"\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestReadUnlabeled(t *testing.T) {
	input := `datetime,Latitude,Longitude,city,description
2020-03-01 21:30:00,34.0375,-118.3506,Los Angeles,VEHICLE - STOLEN
`
	got, stats, err := ReadUnlabeled(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Read)
	require.Len(t, got, 1)
	assert.Equal(t, model.Category(""), got[0].Category)
	assert.Equal(t, model.CityLosAngeles, got[0].City)
}

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	incs := sample()[:1]
	require.NoError(t, WritePredictions(&buf, incs, []model.Category{model.CategoryAssault}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "datetime,Latitude,Longitude,city,crime_category,description,predicted_category", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",Assault"))

	err := WritePredictions(&buf, incs, nil)
	require.Error(t, err)
}
