package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

func testRegistry() *Registry {
	return NewRegistry(config.DatasetsConfig{Encoding: "iso-8859-1", CodeMap: "CRIME_CODES.csv"})
}

func TestRegistry_Order(t *testing.T) {
	reg := testRegistry()
	assert.Equal(t, []string{"baltimore", "boston", "los_angeles", "new_york"}, reg.AllNames())

	var cities []model.City
	for _, s := range reg.All() {
		cities = append(cities, s.City())
	}
	assert.Equal(t, model.Cities, cities)
}

func TestRegistry_Select(t *testing.T) {
	reg := testRegistry()

	all, err := reg.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Selection keeps registry order regardless of argument order.
	some, err := reg.Select([]string{"new_york", "boston"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "boston", some[0].Name())
	assert.Equal(t, "new_york", some[1].Name())

	_, err = reg.Select([]string{"chicago"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestEngine_Combine(t *testing.T) {
	dir := writeFixtures(t)
	engine := NewEngine(testRegistry(), dir)

	combined, err := engine.Combine(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, combined.Sources, 4)
	sum := 0
	for _, s := range combined.Sources {
		sum += s.Stats.Emitted
	}
	assert.Equal(t, 9, sum)
	assert.LessOrEqual(t, len(combined.Incidents), sum)
	assert.Equal(t, sum, len(combined.Incidents), "loaders emit only complete rows")
	assert.Equal(t, 0, combined.Dropped)

	var cities []model.City
	for _, inc := range combined.Incidents {
		assert.True(t, inc.Valid())
		cities = append(cities, inc.City)
	}
	assert.Equal(t, []model.City{
		model.CityBaltimore, model.CityBaltimore, model.CityBaltimore,
		model.CityBoston, model.CityBoston,
		model.CityLosAngeles, model.CityLosAngeles,
		model.CityNewYork, model.CityNewYork,
	}, cities)

	// Row order within a source block is preserved.
	assert.Equal(t, "ROBBERY - STREET/O", combined.Incidents[0].Description)
	assert.Equal(t, "HOMICIDE/O", combined.Incidents[1].Description)
	assert.Equal(t, "UNKNOWN OFFENSE/O", combined.Incidents[2].Description)
}

func TestEngine_CombineSubset(t *testing.T) {
	dir := writeFixtures(t)
	engine := NewEngine(testRegistry(), dir)

	combined, err := engine.Combine(context.Background(), []string{"boston"})
	require.NoError(t, err)
	require.Len(t, combined.Incidents, 2)
	assert.Equal(t, model.CityBoston, combined.Incidents[0].City)
}

func TestEngine_MissingSourceFileIsFatal(t *testing.T) {
	dir := writeFixtures(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "new_york.csv")))

	_, err := NewEngine(testRegistry(), dir).Combine(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new_york")
}

func TestEngine_MissingCodeMapIsFatal(t *testing.T) {
	dir := writeFixtures(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "CRIME_CODES.csv")))

	_, err := NewEngine(testRegistry(), dir).Combine(context.Background(), []string{"baltimore"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crime codes")
}

func TestEngine_NoSources(t *testing.T) {
	reg := &Registry{sources: map[string]Source{}}
	combined, err := NewEngine(reg, t.TempDir()).Combine(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, combined.Incidents)
}
