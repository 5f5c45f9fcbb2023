// Package ml turns combined incidents into a feature matrix and trains the
// random-forest crime-category classifier.
package ml

import (
	"time"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// NumericFeatures names the passthrough columns, in design-matrix order.
var NumericFeatures = []string{"Latitude", "Longitude", "hour", "day_of_week", "month"}

const numNumeric = 5

// DayOfWeek returns the weekday with Monday = 0 and Sunday = 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// numeric returns the passthrough feature values of inc.
func numeric(inc model.Incident) [numNumeric]float64 {
	return [numNumeric]float64{
		inc.Latitude,
		inc.Longitude,
		float64(inc.Datetime.Hour()),
		float64(DayOfWeek(inc.Datetime)),
		float64(inc.Datetime.Month()),
	}
}
