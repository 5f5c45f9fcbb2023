package classify

import "strings"

// outdoorKeywords mark a premises description as a public outdoor setting.
var outdoorKeywords = []string{
	"STREET", "ROAD", "ALLE", "DRIVE", "AVENUE", "LANE", "HIGHWAY", "PARK", "PARKWAY",
	"SIDEWALK", "ALLEY", "PAVEMENT", "PLAZA", "BRIDGE", "OVERPASS", "COURT", "CIRCLE", "BOULEVARD",
	"STREET", "SIDEWALK", "DRIVEWAY", "PARKING LOT", "BUS STOP",
	"ROAD", "FREEWAY", "ALLEY", "INTERSECTION", "BRIDGE", "HIGHWAY",
	"VEHICLE", "OPEN AREA", "OUTSIDE",
}

// indoorKeywords take precedence over outdoorKeywords.
var indoorKeywords = []string{
	"APARTMENT", "RESIDENCE", "HOUSE", "HOME", "STORE", "SHOP", "RESTAURANT", "BAR",
	"HOTEL", "HOSPITAL", "SCHOOL", "CLUB", "OFFICE", "BUILDING", "GARAGE", "STATION", "CHURCH",
}

// IsOutdoor reports whether a premises description names an outdoor location.
// Empty input is not outdoor.
func IsOutdoor(location string) bool {
	if location == "" {
		return false
	}
	text := strings.ToUpper(location)
	if containsAny(text, indoorKeywords) {
		return false
	}
	return containsAny(text, outdoorKeywords)
}

// HasOutdoorCode reports whether a Baltimore description carries the outdoor
// suffix code, e.g. "ROBBERY - STREET/O". The code is the text after the last
// slash; descriptions without a slash are compared whole.
func HasOutdoorCode(description string) bool {
	code := description
	if i := strings.LastIndex(description, "/"); i >= 0 {
		code = description[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(code)) == "O"
}
