package geo

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

// SRID is the spatial reference for every geometry produced here (WGS84).
const SRID = 4326

const (
	// EarthRadiusKM is the mean earth radius used for great-circle math.
	EarthRadiusKM = 6371.0088
	// KMPerMile converts statute miles to kilometers.
	KMPerMile = 1.60934
	// KMPerDegree approximates one degree of latitude in kilometers.
	KMPerDegree = 111.0
	// CoordPrecision is the rounding step for generated coordinates (~11 m).
	CoordPrecision = 0.0001
)

// Bounds is a lng/lat rectangle.
type Bounds struct {
	MinLng float64
	MaxLng float64
	MinLat float64
	MaxLat float64
}

// ServiceArea is the San Antonio region every generated coordinate falls in.
var ServiceArea = Bounds{MinLng: -98.7, MaxLng: -98.3, MinLat: 29.3, MaxLat: 29.6}

// ServiceCenter anchors the territory grid.
var ServiceCenter = [2]float64{-98.4936, 29.4241}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Lng() >= b.MinLng && p.Lng() <= b.MaxLng &&
		p.Lat() >= b.MinLat && p.Lat() <= b.MaxLat
}

// RandomPoint draws a uniform point inside b, rounded to CoordPrecision.
func RandomPoint(r sampler.Rand, b Bounds) Point {
	return NewPoint(
		sampler.FloatRange(r, b.MinLng, b.MaxLng, CoordPrecision),
		sampler.FloatRange(r, b.MinLat, b.MaxLat, CoordPrecision),
	)
}

// RandomBearing draws a compass bearing in [0, 360).
func RandomBearing(r sampler.Rand) float64 {
	return r.Float64() * 360
}

// Hotspots draws n fixed points that damages over-sample to model recurring clusters.
func Hotspots(r sampler.Rand, n int) []Point {
	out := make([]Point, n)
	for i := range out {
		out[i] = RandomPoint(r, ServiceArea)
	}
	return out
}

// Destination returns the point distanceKM along bearingDeg from origin on a sphere.
func Destination(origin Point, distanceKM, bearingDeg float64) Point {
	lng, lat := destination(origin.Lng(), origin.Lat(), distanceKM, bearingDeg)
	return NewPoint(lng, lat)
}

func destination(lng, lat, distanceKM, bearingDeg float64) (float64, float64) {
	lat1 := toRadians(lat)
	lng1 := toRadians(lng)
	theta := toRadians(bearingDeg)
	delta := distanceKM / EarthRadiusKM

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	return toDegrees(lng2), toDegrees(lat2)
}

// Circle approximates a circle of radiusKM around center with steps vertices.
// Vertices are placed at bearings 0, -360/steps, -2*360/steps, ... and the ring is closed.
func Circle(center Point, radiusKM float64, steps int) (Polygon, error) {
	if steps < 3 {
		return Polygon{}, eris.Errorf("geo: circle needs at least 3 steps, got %d", steps)
	}
	if radiusKM <= 0 {
		return Polygon{}, eris.Errorf("geo: circle radius must be positive, got %f", radiusKM)
	}
	ring := make([]geom.Coord, 0, steps+1)
	for i := 0; i < steps; i++ {
		lng, lat := destination(center.Lng(), center.Lat(), radiusKM, float64(i)*-360/float64(steps))
		ring = append(ring, geom.Coord{lng, lat})
	}
	return NewPolygon(ring)
}

// corridorCapSteps is the number of segments on each rounded end of a corridor.
const corridorCapSteps = 8

// CorridorWidthFraction is the corridor's total width as a fraction of its length.
const CorridorWidthFraction = 0.1

// CorridorPolygon buffers the segment from center to the point distanceMiles along
// bearingDeg into a capsule whose total width is CorridorWidthFraction of its length.
func CorridorPolygon(center Point, distanceMiles, bearingDeg float64) (Polygon, error) {
	if distanceMiles <= 0 {
		return Polygon{}, eris.Errorf("geo: corridor distance must be positive, got %f", distanceMiles)
	}
	lengthKM := distanceMiles * KMPerMile
	radiusKM := lengthKM * CorridorWidthFraction / 2

	// Work in a local equirectangular plane (km) anchored at the center.
	lng0, lat0 := center.Lng(), center.Lat()
	kmPerDegLat := EarthRadiusKM * math.Pi / 180
	kmPerDegLng := kmPerDegLat * math.Cos(toRadians(lat0))

	endLng, endLat := destination(lng0, lat0, lengthKM, bearingDeg)
	bx := (endLng - lng0) * kmPerDegLng
	by := (endLat - lat0) * kmPerDegLat
	phi := math.Atan2(by, bx)

	toCoord := func(x, y float64) geom.Coord {
		return geom.Coord{lng0 + x/kmPerDegLng, lat0 + y/kmPerDegLat}
	}

	ring := make([]geom.Coord, 0, 2*(corridorCapSteps+1)+1)
	// Far cap sweeps counter-clockwise from the right side of the segment to the left.
	for i := 0; i <= corridorCapSteps; i++ {
		a := phi - math.Pi/2 + math.Pi*float64(i)/corridorCapSteps
		ring = append(ring, toCoord(bx+radiusKM*math.Cos(a), by+radiusKM*math.Sin(a)))
	}
	for i := 0; i <= corridorCapSteps; i++ {
		a := phi + math.Pi/2 + math.Pi*float64(i)/corridorCapSteps
		ring = append(ring, toCoord(radiusKM*math.Cos(a), radiusKM*math.Sin(a)))
	}
	return NewPolygon(ring)
}

// HaversineKM returns the great-circle distance between two points.
func HaversineKM(a, b Point) float64 {
	dLat := toRadians(b.Lat() - a.Lat())
	dLng := toRadians(b.Lng() - a.Lng())
	lat1 := toRadians(a.Lat())
	lat2 := toRadians(b.Lat())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(d float64) float64 { return d * math.Pi / 180 }

func toDegrees(r float64) float64 { return r * 180 / math.Pi }
