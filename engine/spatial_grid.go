package engine

import (
	"math"

	"github.com/lixenwraith/sceneforge/core"
)

type cellKey struct {
	X, Y, Z int32
}

// SpatialHashGrid is the broadphase index over world positions. It is rebuilt
// every step: Clear, then Insert for every candidate slot, then queries.
//
// Cell backing slices are recycled through a pool instead of freed, so the
// steady state after warm-up allocates nothing. Cell contents reflect only
// the most recent rebuild; a list must never be read after the next Clear.
type SpatialHashGrid struct {
	cellSize float64
	cells    map[cellKey][]core.Slot
	pool     [][]core.Slot
}

// NewSpatialHashGrid creates a grid with the given cell edge length
func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]core.Slot, 64),
	}
}

// CellSize returns the grid's cell edge length
func (g *SpatialHashGrid) CellSize() float64 {
	return g.cellSize
}

func (g *SpatialHashGrid) keyFor(x, y, z float64) cellKey {
	return cellKey{
		X: int32(math.Floor(x / g.cellSize)),
		Y: int32(math.Floor(y / g.cellSize)),
		Z: int32(math.Floor(z / g.cellSize)),
	}
}

// Clear recycles every cell's backing list into the pool and empties the map
func (g *SpatialHashGrid) Clear() {
	for k, list := range g.cells {
		g.pool = append(g.pool, list[:0])
		delete(g.cells, k)
	}
}

// Insert appends the slot to the cell containing (x, y, z), creating the
// cell from the pool if absent. List order within a cell is insertion order.
func (g *SpatialHashGrid) Insert(slot core.Slot, x, y, z float64) {
	k := g.keyFor(x, y, z)
	list, ok := g.cells[k]
	if !ok {
		if n := len(g.pool); n > 0 {
			list = g.pool[n-1]
			g.pool = g.pool[:n-1]
		}
	}
	g.cells[k] = append(list, slot)
}

// GetPotentialColliders returns the slots sharing the query point's cell.
//
// This is a single-cell approximation: neighboring cells are NOT searched,
// so two objects closer than cellSize but on opposite sides of a cell
// boundary are not reported. Known limitation, kept deliberately; extend
// with a 27-cell walk if exact broadphase coverage is ever required.
//
// The returned slice aliases the cell's backing list and is valid only until
// the next Clear.
func (g *SpatialHashGrid) GetPotentialColliders(x, y, z float64) []core.Slot {
	return g.cells[g.keyFor(x, y, z)]
}

// CellCount returns the number of occupied cells since the last Clear
func (g *SpatialHashGrid) CellCount() int {
	return len(g.cells)
}
