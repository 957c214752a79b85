package chunk

import (
	"fmt"

	"github.com/sri-shubham/Everclimb/internal/hex"
)

// Grid is the mutable working view of a chunk: two flat row-major arrays
// indexed by row*cols+col. Accessors panic on out-of-range coordinates.
type Grid struct {
	cols, rows int
	terrain    []Terrain
	items      []Item
}

// NewGrid allocates a cols x rows grid of Dirt with no items.
func NewGrid(cols, rows int) *Grid {
	if cols <= 0 || rows <= 0 {
		panic(fmt.Sprintf("chunk: invalid grid %dx%d", cols, rows))
	}
	return &Grid{
		cols:    cols,
		rows:    rows,
		terrain: make([]Terrain, cols*rows),
		items:   make([]Item, cols*rows),
	}
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether (q, r) is a cell of g.
func (g *Grid) InBounds(q, r int) bool {
	return hex.InBounds(q, r, g.cols, g.rows)
}

// Index returns the flat index of (q, r).
func (g *Grid) Index(q, r int) int {
	if !g.InBounds(q, r) {
		panic(fmt.Sprintf("chunk: cell (%d,%d) outside %dx%d grid", q, r, g.cols, g.rows))
	}
	return r*g.cols + q
}

// TerrainAt returns the terrain at (q, r).
func (g *Grid) TerrainAt(q, r int) Terrain { return g.terrain[g.Index(q, r)] }

// ItemAt returns the item at (q, r).
func (g *Grid) ItemAt(q, r int) Item { return g.items[g.Index(q, r)] }

// SetTerrain overwrites the terrain at (q, r).
func (g *Grid) SetTerrain(q, r int, t Terrain) { g.terrain[g.Index(q, r)] = t }

// SetItem overwrites the item at (q, r).
func (g *Grid) SetItem(q, r int, it Item) { g.items[g.Index(q, r)] = it }

// Count returns how many cells hold it.
func (g *Grid) Count(it Item) int {
	n := 0
	for _, v := range g.items {
		if v == it {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{cols: g.cols, rows: g.rows}
	c.terrain = append([]Terrain(nil), g.terrain...)
	c.items = append([]Item(nil), g.items...)
	return c
}
