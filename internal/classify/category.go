// Package classify maps free-text offense and location descriptions onto the
// fixed crime categories and the indoor/outdoor flag.
package classify

import (
	"strings"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// categoryRule assigns a category when any of its keywords appears in the text.
type categoryRule struct {
	category model.Category
	keywords []string
}

// categoryRules are evaluated in order; the first matching rule wins.
var categoryRules = []categoryRule{
	{model.CategoryHomicide, []string{"HOMICIDE", "MURDER"}},
	{model.CategoryAssault, []string{"ASSAULT"}},
	{model.CategoryTheft, []string{"ROBBERY", "THEFT", "LARCENY"}},
	{model.CategoryBurglary, []string{"BURGLARY"}},
	{model.CategoryVehicleCrime, []string{"VEHICLE", "MOTOR", "CARJACK"}},
	{model.CategoryDrugOffense, []string{"DRUG", "NARCOTIC"}},
	{model.CategorySexualOffense, []string{"SEX", "RAPE"}},
	{model.CategoryFraud, []string{"FRAUD", "FORGERY", "EMBEZZ"}},
}

// NormalizeCategory returns the crime category for a raw offense type and
// description. Either input may be empty. Matching is case-insensitive
// substring search over both fields; text with no keyword is CategoryOther.
func NormalizeCategory(rawType, description string) model.Category {
	combined := strings.ToUpper(rawType) + " " + strings.ToUpper(description)
	for _, rule := range categoryRules {
		if containsAny(combined, rule.keywords) {
			return rule.category
		}
	}
	return model.CategoryOther
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
