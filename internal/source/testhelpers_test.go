package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	// Replace global logger with a no-op to keep test output quiet.
	zap.ReplaceGlobals(zap.NewNop())
}

const codesCSV = `CODE,NAME_COMBINE
3B,ROBBERY - STREET
4A,AGG. ASSAULT - GUN
5A,BURGLARY - FORCIBLE ENTRY
5A,DUPLICATE LABEL
`

const baltimoreCSV = `CrimeDate,CrimeTime,CrimeCode,Location,Description,Inside/Outside,Weapon,Post,District,Neighborhood,Location 1,Total Incidents
11/12/2016,02:35:00,3B,300 SAINT PAUL PL,ROBBERY - STREET/O,O,,111,CENTRAL,Downtown,"(39.2924100000, -76.6140200000)",1
11/12/2016,02:56:00,5A,800 S BROADWAY,BURGLARY/I,I,,213,SOUTHEASTERN,Fells Point,"(39.2824200000, -76.5935600000)",1
11/12/2016,03:00:00,4A,1500 PENTWOOD RD,AGG. ASSAULT/O,O,HANDS,413,NORTHEASTERN,Stonewood,"(abc, -76.58)",1
,03:00:00,4A,1500 PENTWOOD RD,AGG. ASSAULT/O,O,HANDS,413,NORTHEASTERN,Stonewood,"(39.3, -76.58)",1
11/12/2016,22:10:00,99,2500 ARUNAH AVE,HOMICIDE/O,O,FIREARM,721,WESTERN,Mosher,"(39.31, -76.62)",1
11/13/2016,01:00:00,5A,100 N CHARLES ST,UNKNOWN OFFENSE/O,O,,111,CENTRAL,Downtown,"(39.30, -76.60)",1
11/13/2016,04:00:00,6D,100 N CHARLES ST,LARCENY FROM AUTO/ O,O,,111,CENTRAL,Downtown,,1
`

const bostonCSV = `INCIDENT_NUMBER,OFFENSE_CODE,OFFENSE_CODE_GROUP,OFFENSE_DESCRIPTION,DISTRICT,OCCURRED_ON_DATE,YEAR,MONTH,DAY_OF_WEEK,HOUR,STREET,Lat,Long,Location
I182070945,619,Larceny,LARCENY ALL OTHERS,D14,2018-09-02 13:00:00,2018,9,Sunday,13,LINCOLN ST,42.35779134,-71.13937053,"(42.35779134, -71.13937053)"
I182070943,1402,Vandalism,VANDALISM,C11,2018-08-21 00:00:00,2018,8,Tuesday,0,HECLA ST,42.30682138,-71.06030035,"(42.30682138, -71.06030035)"
I182070941,3410,Towed,TOWED MOTOR VEHICLE,D4,2018-09-03 19:27:00,2018,9,Monday,19,CAZENOVE ST,,,"(0.00000000, 0.00000000)"
I182070940,3114,Investigate Property,INVESTIGATE PROPERTY,B3,not-a-date,2018,9,Monday,21,WASHINGTON ST,42.35,-71.05,"(42.35, -71.05)"
I182070939,3125,Warrant Arrests,WARRANT ARREST,D4,2018-09-03 21:16:00,2018,9,Monday,,WASHINGTON ST,42.35,-71.05,
I182070938,3005,Assault,,D4,2018-09-03 21:16:00,2018,9,Monday,21,WASHINGTON ST,42.35,-71.05,
`

const losAngelesCSV = `DR_NO,DATE OCC,TIME OCC,Part 1-2,Crm Cd Desc,Premis Desc,LAT,LON
190326475,03/01/2020 12:00:00 AM,2130,1,VEHICLE - STOLEN,STREET,34.0375,-118.3506
200106753,02/08/2020 12:00:00 AM,1800,1,BURGLARY FROM VEHICLE,CLOTHING STORE,34.0444,-118.2628
200320258,11/04/2020 12:00:00 AM,5,2,THEFT OF IDENTITY,PARKING LOT,34.0210,-118.3002
200907217,03/10/2020 12:00:00 AM,abcd,1,BATTERY - SIMPLE ASSAULT,SIDEWALK,34.1,-118.4
200411429,not a date,1200,1,ROBBERY,STREET,34.1,-118.4
200100501,01/02/2020 12:00:00 AM,45,2,BRANDISH WEAPON,SINGLE FAMILY DWELLING,34.1,-118.4
`

const newYorkCSV = `CMPLNT_NUM,CMPLNT_FR_DT,CMPLNT_FR_TM,LAW_CAT_CD,OFNS_DESC,PREM_TYP_DESC,Latitude,Longitude
1,12/31/2019,17:30:00,FELONY,ROBBERY,STREET,40.8,-73.9
2,12/30/2019,09:00:00,MISDEMEANOR,PETIT LARCENY,RESIDENCE - APT. HOUSE,40.7,-73.9
3,12/29/2019,24:00:00,FELONY,FELONY ASSAULT,PARK/PLAYGROUND,40.7,-73.9
4,12/28/2019,08:15:00,MISDEMEANOR,DANGEROUS DRUGS,PARK/PLAYGROUND,,
5,12/27/2019,23:59:00,MISDEMEANOR,DANGEROUS DRUGS,PARK/PLAYGROUND,40.75,-73.95
6,12/26/2019,10:00:00,FELONY,SEX CRIMES,,40.7,-73.9
`

// writeFixtures writes every city export plus the crime-code lookup to a temp dir.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"CRIME_CODES.csv": codesCSV,
		"baltimore.csv":   baltimoreCSV,
		"boston.csv":      bostonCSV,
		"los_angeles.csv": losAngelesCSV,
		"new_york.csv":    newYorkCSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}
