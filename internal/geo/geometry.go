// Package geo builds the service-area geometry used by the seed generators:
// bounded points, work corridors, territory grid cells and damage hotspots.
package geo

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Point is a WGS84 lng/lat point that marshals as a GeoJSON Point.
type Point struct {
	*geom.Point
}

// NewPoint returns a point at (lng, lat).
func NewPoint(lng, lat float64) Point {
	return Point{geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(SRID)}
}

// Lng returns the longitude, or 0 for a zero Point.
func (p Point) Lng() float64 {
	if p.Point == nil {
		return 0
	}
	return p.X()
}

// Lat returns the latitude, or 0 for a zero Point.
func (p Point) Lat() float64 {
	if p.Point == nil {
		return 0
	}
	return p.Y()
}

// IsZero reports whether the point has no geometry.
func (p Point) IsZero() bool {
	return p.Point == nil
}

func (p Point) MarshalJSON() ([]byte, error) {
	if p.Point == nil {
		return []byte("null"), nil
	}
	data, err := geojson.Marshal(p.Point)
	if err != nil {
		return nil, eris.Wrap(err, "geo: marshal point")
	}
	return data, nil
}

func (p *Point) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.Point = nil
		return nil
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return eris.Wrap(err, "geo: unmarshal point")
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return eris.Errorf("geo: expected Point, got %T", g)
	}
	p.Point = pt.SetSRID(SRID)
	return nil
}

// MarshalYAML renders the same GeoJSON shape for YAML output.
func (p Point) MarshalYAML() (any, error) {
	if p.Point == nil {
		return nil, nil
	}
	return geoJSONDoc{Type: "Point", Coordinates: []float64{p.X(), p.Y()}}, nil
}

// Polygon is a single-ring WGS84 polygon that marshals as a GeoJSON Polygon.
type Polygon struct {
	*geom.Polygon
}

// NewPolygon builds a polygon from an exterior ring, closing it if needed.
func NewPolygon(ring []geom.Coord) (Polygon, error) {
	if len(ring) < 3 {
		return Polygon{}, eris.Errorf("geo: polygon ring needs at least 3 coordinates, got %d", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring[:len(ring):len(ring)], geom.Coord{first[0], first[1]})
	}
	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return Polygon{}, eris.Wrap(err, "geo: build polygon")
	}
	return Polygon{poly.SetSRID(SRID)}, nil
}

// Ring returns the exterior ring coordinates.
func (p Polygon) Ring() []geom.Coord {
	if p.Polygon == nil || p.NumLinearRings() == 0 {
		return nil
	}
	return p.LinearRing(0).Coords()
}

// Contains reports whether pt falls inside the exterior ring (even-odd rule).
func (p Polygon) Contains(pt Point) bool {
	ring := p.Ring()
	if len(ring) < 4 || pt.IsZero() {
		return false
	}
	x, y := pt.Lng(), pt.Lat()
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func (p Polygon) MarshalJSON() ([]byte, error) {
	if p.Polygon == nil {
		return []byte("null"), nil
	}
	data, err := geojson.Marshal(p.Polygon)
	if err != nil {
		return nil, eris.Wrap(err, "geo: marshal polygon")
	}
	return data, nil
}

func (p *Polygon) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.Polygon = nil
		return nil
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return eris.Wrap(err, "geo: unmarshal polygon")
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return eris.Errorf("geo: expected Polygon, got %T", g)
	}
	p.Polygon = poly.SetSRID(SRID)
	return nil
}

// MarshalYAML renders the same GeoJSON shape for YAML output.
func (p Polygon) MarshalYAML() (any, error) {
	if p.Polygon == nil {
		return nil, nil
	}
	rings := make([][][]float64, 0, p.NumLinearRings())
	for _, ring := range p.Coords() {
		coords := make([][]float64, len(ring))
		for i, c := range ring {
			coords[i] = []float64{c[0], c[1]}
		}
		rings = append(rings, coords)
	}
	return geoJSONDoc{Type: "Polygon", Coordinates: rings}, nil
}

type geoJSONDoc struct {
	Type        string `json:"type" yaml:"type"`
	Coordinates any    `json:"coordinates" yaml:"coordinates"`
}

var (
	_ json.Marshaler   = Point{}
	_ json.Unmarshaler = (*Point)(nil)
	_ json.Marshaler   = Polygon{}
	_ json.Unmarshaler = (*Polygon)(nil)
)
