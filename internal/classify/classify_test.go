package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name    string
		rawType string
		desc    string
		want    model.Category
	}{
		{"homicide in type", "HOMICIDE", "", model.CategoryHomicide},
		{"murder in description", "", "murder 2nd degree", model.CategoryHomicide},
		{"murder beats fraud", "FRAUD", "MURDER", model.CategoryHomicide},
		{"homicide beats assault", "AGG. ASSAULT", "criminal homicide", model.CategoryHomicide},
		{"assault", "", "AGGRAVATED ASSAULT", model.CategoryAssault},
		{"assault beats theft", "ROBBERY", "ASSAULT", model.CategoryAssault},
		{"robbery", "", "ROBBERY - STREET", model.CategoryTheft},
		{"larceny", "Larceny", "", model.CategoryTheft},
		{"theft beats vehicle", "", "THEFT FROM MOTOR VEHICLE", model.CategoryTheft},
		{"burglary", "", "BURGLARY", model.CategoryBurglary},
		{"motor", "", "MOTOR VEHICLE ACCIDENT RESPONSE", model.CategoryVehicleCrime},
		{"carjack", "", "carjacking", model.CategoryVehicleCrime},
		{"drugs", "", "DANGEROUS DRUGS", model.CategoryDrugOffense},
		{"narcotic", "", "Narcotics", model.CategoryDrugOffense},
		{"sex crimes", "", "SEX CRIMES", model.CategorySexualOffense},
		{"rape", "RAPE", "", model.CategorySexualOffense},
		{"forgery", "", "FORGERY", model.CategoryFraud},
		{"embezzlement", "", "EMBEZZLEMENT", model.CategoryFraud},
		{"no keyword", "FELONY", "CRIMINAL MISCHIEF", model.CategoryOther},
		{"both empty", "", "", model.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.rawType, tt.desc))
		})
	}
}

func TestNormalizeCategory_HomicideAlwaysWins(t *testing.T) {
	others := []string{"ASSAULT", "THEFT", "BURGLARY", "VEHICLE", "DRUG", "SEX", "FRAUD", ""}
	for _, other := range others {
		assert.Equal(t, model.CategoryHomicide, NormalizeCategory(other, "murder"), other)
		assert.Equal(t, model.CategoryHomicide, NormalizeCategory("Homicide", other), other)
	}
}

func TestNormalizeCategory_Total(t *testing.T) {
	for _, in := range []string{"", " ", "???", "12345", "Part 1"} {
		assert.True(t, NormalizeCategory(in, in).Valid())
	}
}

func TestIsOutdoor(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     bool
	}{
		{"street address", "123 MAIN STREET", true},
		{"apartment", "APARTMENT 4B", false},
		{"indoor wins", "PARKING LOT OF APARTMENT BUILDING", false},
		{"empty", "", false},
		{"lowercase street", "street", true},
		{"parking lot", "PARKING LOT", true},
		{"vehicle", "VEHICLE, PASSENGER/TRUCK", true},
		{"single family dwelling", "SINGLE FAMILY DWELLING", false},
		{"no keyword", "TRANSIT - NYC SUBWAY", false},
		{"bar is indoor", "BAR/NIGHT CLUB", false},
		{"public housing", "RESIDENCE - PUBLIC HOUSING", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutdoor(tt.location))
		})
	}
}

func TestHasOutdoorCode(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"ROBBERY - STREET/O", true},
		{"LARCENY/ o ", true},
		{"BURGLARY/I", false},
		{"COMMON ASSAULT", false},
		{"O", true},
		{"", false},
		{"A/O/I", false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOutdoorCode(tt.desc))
		})
	}
}
