package ml

import (
	"time"

	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// separable builds n incidents per class where every feature agrees on the
// category, so any split the forest picks is consistent with the labels.
func separable(n int) []model.Incident {
	kinds := []struct {
		category model.Category
		desc     string
		city     model.City
		when     time.Time
		lat, lon float64
	}{
		{model.CategoryTheft, "ROBBERY - STREET", model.CityBaltimore, time.Date(2020, 1, 6, 2, 0, 0, 0, time.UTC), 39.29, -76.61},
		{model.CategoryAssault, "SIMPLE ASSAULT", model.CityBoston, time.Date(2020, 5, 13, 14, 0, 0, 0, time.UTC), 42.35, -71.06},
		{model.CategoryVehicleCrime, "VEHICLE - STOLEN", model.CityLosAngeles, time.Date(2020, 9, 19, 22, 0, 0, 0, time.UTC), 34.05, -118.24},
	}

	var out []model.Incident
	for i := range n {
		for _, k := range kinds {
			out = append(out, model.Incident{
				Datetime:    k.when.Add(time.Duration(i) * time.Minute),
				Latitude:    k.lat + float64(i)*1e-4,
				Longitude:   k.lon + float64(i)*1e-4,
				City:        k.city,
				Category:    k.category,
				Description: k.desc,
			})
		}
	}
	return out
}
