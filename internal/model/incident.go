// Package model defines the unified crime-incident schema shared by the loaders,
// the cleaned-table writer, and the training pipeline.
package model

import (
	"math"
	"time"
)

// City identifies the municipal source of an incident.
type City string

const (
	CityBaltimore  City = "Baltimore"
	CityBoston     City = "Boston"
	CityLosAngeles City = "Los Angeles"
	CityNewYork    City = "New York"
)

// Cities lists every supported city in stacking order.
var Cities = []City{CityBaltimore, CityBoston, CityLosAngeles, CityNewYork}

// Valid reports whether c is one of the supported cities.
func (c City) Valid() bool {
	for _, known := range Cities {
		if c == known {
			return true
		}
	}
	return false
}

// Category is the coarse crime classification derived from free text.
type Category string

const (
	CategoryHomicide      Category = "Homicide"
	CategoryAssault       Category = "Assault"
	CategoryTheft         Category = "Theft"
	CategoryBurglary      Category = "Burglary"
	CategoryVehicleCrime  Category = "Vehicle Crime"
	CategoryDrugOffense   Category = "Drug Offense"
	CategorySexualOffense Category = "Sexual Offense"
	CategoryFraud         Category = "Fraud"
	CategoryOther         Category = "Other"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryHomicide,
	CategoryAssault,
	CategoryTheft,
	CategoryBurglary,
	CategoryVehicleCrime,
	CategoryDrugOffense,
	CategorySexualOffense,
	CategoryFraud,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Incident is one unified crime record. Only complete records are ever
// represented as an Incident; loaders drop anything with a missing field.
type Incident struct {
	Datetime    time.Time `json:"datetime"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	City        City      `json:"city"`
	Category    Category  `json:"crime_category"`
	Description string    `json:"description"`
}

// Valid reports whether every field of the incident is populated.
func (i Incident) Valid() bool {
	if i.Datetime.IsZero() || i.Description == "" {
		return false
	}
	if math.IsNaN(i.Latitude) || math.IsNaN(i.Longitude) || math.IsInf(i.Latitude, 0) || math.IsInf(i.Longitude, 0) {
		return false
	}
	return i.City.Valid() && i.Category.Valid()
}
