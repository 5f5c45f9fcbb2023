package store

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// wgs84 is the SRID of latitude/longitude in degrees.
const wgs84 = 4326

// pointEWKB encodes a WGS84 point as little-endian EWKB for a PostGIS
// geometry(Point, 4326) column. X is longitude, Y is latitude.
func pointEWKB(lat, lon float64) ([]byte, error) {
	p := geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(wgs84)
	data, err := ewkb.Marshal(p, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: encode point")
	}
	return data, nil
}
