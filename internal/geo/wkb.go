package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// EWKB encodes the point as little-endian EWKB with SRID 4326.
// A zero point encodes to nil.
func (p Point) EWKB() ([]byte, error) {
	if p.Point == nil {
		return nil, nil
	}
	return encodeEWKB(p.Point)
}

// EWKB encodes the polygon as little-endian EWKB with SRID 4326.
// A zero polygon encodes to nil.
func (p Polygon) EWKB() ([]byte, error) {
	if p.Polygon == nil {
		return nil, nil
	}
	return encodeEWKB(p.Polygon)
}

func encodeEWKB(g geom.T) ([]byte, error) {
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode EWKB")
	}
	return data, nil
}
