package geo

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Territory is one employee's cell, as exported to GIS tooling.
type Territory struct {
	EmployeeNumber string
	Cell           Cell
}

// WriteTerritories writes territories as an ESRI polygon shapefile at path (plus the
// .shx/.dbf sidecars). Attributes: EMP_NUM, ZONE, CELL, RADIUS_KM.
func WriteTerritories(path string, territories []Territory) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "geo: create shapefile %s", path)
	}
	defer w.Close()

	fields := []shp.Field{
		shp.StringField("EMP_NUM", 12),
		shp.StringField("ZONE", 8),
		shp.NumberField("CELL", 4),
		shp.FloatField("RADIUS_KM", 10, 3),
	}
	if err := w.SetFields(fields); err != nil {
		return eris.Wrap(err, "geo: set shapefile fields")
	}

	var skipped int
	for _, t := range territories {
		ring := t.Cell.Polygon.Ring()
		if len(ring) == 0 {
			skipped++
			continue
		}

		// Shapefile outer rings run clockwise; GeoJSON rings here run counter-clockwise.
		points := make([]shp.Point, len(ring))
		for i, c := range ring {
			points[len(ring)-1-i] = shp.Point{X: c[0], Y: c[1]}
		}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{points}))

		row := int(w.Write(&poly))
		attrs := []any{t.EmployeeNumber, strings.TrimPrefix(t.Cell.Label, "Zone "), t.Cell.Index, t.Cell.RadiusKM}
		for field, v := range attrs {
			if err := w.WriteAttribute(row, field, v); err != nil {
				return eris.Wrapf(err, "geo: write attribute %d for %s", field, t.EmployeeNumber)
			}
		}
	}

	if skipped > 0 {
		zap.L().Debug("geo: skipped territories without polygons", zap.Int("skipped", skipped))
	}
	return nil
}
