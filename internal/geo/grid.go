package geo

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

// ErrGridCapacity is returned when a cell index falls outside the grid.
var ErrGridCapacity = errors.New("geo: grid capacity exceeded")

const (
	// DefaultGridCols is the side length of the square territory grid.
	DefaultGridCols = 5
	// DefaultGridSize is the spacing between cell centers in degrees (~16.5 km).
	DefaultGridSize = 0.15
	// TerritorySteps is the vertex count of a territory polygon.
	TerritorySteps = 6
)

// Grid tessellates the service area into Cols x Cols territory cells.
type Grid struct {
	Cols   int
	Size   float64
	Center Point
}

// DefaultGrid returns the 5x5 grid centered on ServiceCenter with 0.15 degree spacing.
func DefaultGrid() Grid {
	return Grid{
		Cols:   DefaultGridCols,
		Size:   DefaultGridSize,
		Center: NewPoint(ServiceCenter[0], ServiceCenter[1]),
	}
}

// Capacity is the number of distinct cells in the grid.
func (g Grid) Capacity() int {
	return g.Cols * g.Cols
}

// Cell is one territory of the grid.
type Cell struct {
	Index    int     `json:"index"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Center   Point   `json:"center"`
	Polygon  Polygon `json:"polygon"`
	RadiusKM float64 `json:"radius_km"`
	Label    string  `json:"label"`
}

// Cell maps a zero-based sequential index to its row and column and builds the
// cell's territory: a hexagonal buffered circle whose radius is half the cell spacing
// in km, perturbed independently per cell by a factor in [0.8, 1.2].
func (g Grid) Cell(r sampler.Rand, index int) (Cell, error) {
	if index < 0 || index >= g.Capacity() {
		return Cell{}, eris.Wrapf(ErrGridCapacity, "geo: cell index %d outside %dx%d grid", index, g.Cols, g.Cols)
	}

	row := index / g.Cols
	col := index % g.Cols
	mid := g.Cols / 2

	center := NewPoint(
		g.Center.Lng()+float64(col-mid)*g.Size,
		g.Center.Lat()+float64(row-mid)*g.Size,
	)

	nominalKM := g.Size * KMPerDegree * 0.5
	radiusKM := nominalKM * sampler.FloatRange(r, 0.8, 1.2, 0)

	poly, err := Circle(center, radiusKM, TerritorySteps)
	if err != nil {
		return Cell{}, eris.Wrapf(err, "geo: territory polygon for cell %d", index)
	}

	return Cell{
		Index:    index,
		Row:      row,
		Col:      col,
		Center:   center,
		Polygon:  poly,
		RadiusKM: radiusKM,
		Label:    fmt.Sprintf("Zone %c%d", 'A'+rune(row), col+1),
	}, nil
}
