package ml

import (
	"slices"

	"github.com/Prastabm/SafeLanes-Research/internal/model"
)

// OneHotEncoder expands the city and description columns into indicator
// columns. Categories are sorted per feature. Values not seen during Fit
// encode as all zeros.
type OneHotEncoder struct {
	Cities       []string `json:"cities"`
	Descriptions []string `json:"descriptions"`

	cityIdx map[string]int
	descIdx map[string]int
}

// Fit learns the category vocabulary from incs.
func (e *OneHotEncoder) Fit(incs []model.Incident) {
	cities := make(map[string]struct{})
	descs := make(map[string]struct{})
	for _, inc := range incs {
		cities[string(inc.City)] = struct{}{}
		descs[inc.Description] = struct{}{}
	}
	e.Cities = sortedKeys(cities)
	e.Descriptions = sortedKeys(descs)
	e.reindex()
}

func (e *OneHotEncoder) reindex() {
	e.cityIdx = indexOf(e.Cities)
	e.descIdx = indexOf(e.Descriptions)
}

// Width returns the number of columns Transform produces.
func (e *OneHotEncoder) Width() int {
	return len(e.Cities) + len(e.Descriptions) + numNumeric
}

// FeatureNames returns the column names of the encoded matrix.
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for _, c := range e.Cities {
		names = append(names, "city_"+c)
	}
	for _, d := range e.Descriptions {
		names = append(names, "description_"+d)
	}
	return append(names, NumericFeatures...)
}

// Transform encodes incs into a design matrix.
func (e *OneHotEncoder) Transform(incs []model.Incident) *Design {
	if e.cityIdx == nil || e.descIdx == nil {
		e.reindex()
	}

	d := &Design{
		rows:   len(incs),
		nCity:  len(e.Cities),
		nDesc:  len(e.Descriptions),
		city:   make([]int, len(incs)),
		desc:   make([]int, len(incs)),
		values: make([][numNumeric]float64, len(incs)),
	}
	for i, inc := range incs {
		d.city[i] = lookup(e.cityIdx, string(inc.City))
		d.desc[i] = lookup(e.descIdx, inc.Description)
		d.values[i] = numeric(inc)
	}
	return d
}

func lookup(idx map[string]int, v string) int {
	if i, ok := idx[v]; ok {
		return i
	}
	return unknown
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
