package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_CellRowCol(t *testing.T) {
	grid := DefaultGrid()
	r := testRand()

	tests := []struct {
		index    int
		row, col int
		label    string
	}{
		{0, 0, 0, "Zone A1"},
		{4, 0, 4, "Zone A5"},
		{5, 1, 0, "Zone B1"},
		{12, 2, 2, "Zone C3"},
		{24, 4, 4, "Zone E5"},
	}
	for _, tt := range tests {
		cell, err := grid.Cell(r, tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.row, cell.Row)
		assert.Equal(t, tt.col, cell.Col)
		assert.Equal(t, tt.label, cell.Label)
	}
}

func TestGrid_CenterCellIsServiceCenter(t *testing.T) {
	cell, err := DefaultGrid().Cell(testRand(), 12)
	require.NoError(t, err)
	assert.InDelta(t, ServiceCenter[0], cell.Center.Lng(), 1e-9)
	assert.InDelta(t, ServiceCenter[1], cell.Center.Lat(), 1e-9)
}

func TestGrid_CellOffsets(t *testing.T) {
	cell, err := DefaultGrid().Cell(testRand(), 0)
	require.NoError(t, err)
	assert.InDelta(t, ServiceCenter[0]-0.3, cell.Center.Lng(), 1e-9)
	assert.InDelta(t, ServiceCenter[1]-0.3, cell.Center.Lat(), 1e-9)
}

func TestGrid_RadiusPerturbation(t *testing.T) {
	grid := DefaultGrid()
	r := testRand()
	nominal := DefaultGridSize * KMPerDegree * 0.5

	radii := map[float64]bool{}
	for i := 0; i < grid.Capacity(); i++ {
		cell, err := grid.Cell(r, i)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cell.RadiusKM, nominal*0.8)
		assert.LessOrEqual(t, cell.RadiusKM, nominal*1.2)
		assert.Len(t, cell.Polygon.Ring(), TerritorySteps+1)
		assert.True(t, cell.Polygon.Contains(cell.Center))
		radii[cell.RadiusKM] = true
	}
	assert.Greater(t, len(radii), 1, "radii should be perturbed independently")
}

func TestGrid_Capacity(t *testing.T) {
	grid := DefaultGrid()
	assert.Equal(t, 25, grid.Capacity())

	_, err := grid.Cell(testRand(), 25)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGridCapacity))

	_, err = grid.Cell(testRand(), -1)
	assert.True(t, errors.Is(err, ErrGridCapacity))
}
