// Package chunk generates vertical climbing chunks: a hex grid of terrain and
// items that is guaranteed to be climbable from the bottom row to the top.
package chunk

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

// Chunk is one generated screen of climb. It is immutable once built.
type Chunk struct {
	grid     *Grid
	hexSize  float64
	viewport hex.Viewport
	seed     uint32
	level    int
	entrance int
	params   difficulty.Params
	repairs  int
}

// Meta describes everything about a chunk except its cells.
type Meta struct {
	HexSize   float64
	Viewport  hex.Viewport
	Seed      uint32
	Level     int
	EntranceQ int
	Params    difficulty.Params
	Repairs   int
}

// New builds a chunk around a copy of g. EntranceQ is clamped into the grid.
func New(g *Grid, m Meta) *Chunk {
	return &Chunk{
		grid:     g.Clone(),
		hexSize:  m.HexSize,
		viewport: m.Viewport,
		seed:     m.Seed,
		level:    max(m.Level, 1),
		entrance: clampCol(m.EntranceQ, g.cols),
		params:   m.Params,
		repairs:  m.Repairs,
	}
}

// Cols returns the number of columns.
func (c *Chunk) Cols() int { return c.grid.cols }

// Rows returns the number of rows. Row 0 is the top of the chunk.
func (c *Chunk) Rows() int { return c.grid.rows }

// HexSize returns the hex radius in pixels the chunk was sized for.
func (c *Chunk) HexSize() float64 { return c.hexSize }

// Viewport returns the pixel area the chunk was sized for.
func (c *Chunk) Viewport() hex.Viewport { return c.viewport }

// Seed returns the seed the chunk was generated from.
func (c *Chunk) Seed() uint32 { return c.seed }

// Level returns the difficulty level, at least 1.
func (c *Chunk) Level() int { return c.level }

// EntranceQ returns the bottom-row column where the climb enters.
func (c *Chunk) EntranceQ() int { return c.entrance }

// Params returns the difficulty knobs the chunk was generated with.
func (c *Chunk) Params() difficulty.Params { return c.params }

// Repairs returns how many cells the reachability sweep changed.
func (c *Chunk) Repairs() int { return c.repairs }

// TerrainAt returns the terrain at (q, r). It panics outside the grid.
func (c *Chunk) TerrainAt(q, r int) Terrain { return c.grid.TerrainAt(q, r) }

// ItemAt returns the item at (q, r). It panics outside the grid.
func (c *Chunk) ItemAt(q, r int) Item { return c.grid.ItemAt(q, r) }

// InBounds reports whether (q, r) is a cell of the chunk.
func (c *Chunk) InBounds(q, r int) bool { return c.grid.InBounds(q, r) }

// Count returns how many cells hold it.
func (c *Chunk) Count(it Item) int { return c.grid.Count(it) }

// Terrain returns a copy of the row-major terrain array.
func (c *Chunk) Terrain() []Terrain { return append([]Terrain(nil), c.grid.terrain...) }

// Items returns a copy of the row-major item array.
func (c *Chunk) Items() []Item { return append([]Item(nil), c.grid.items...) }

// Grid returns a mutable copy of the cells.
func (c *Chunk) Grid() *Grid { return c.grid.Clone() }

// Meta returns the chunk's metadata.
func (c *Chunk) Meta() Meta {
	return Meta{
		HexSize:   c.hexSize,
		Viewport:  c.viewport,
		Seed:      c.seed,
		Level:     c.level,
		EntranceQ: c.entrance,
		Params:    c.params,
		Repairs:   c.repairs,
	}
}

// Digest fingerprints the chunk's identity and cells. Two chunks with the same
// digest were generated from the same inputs.
func (c *Chunk) Digest() uint64 {
	h := xxhash.New()
	var hdr [20]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(c.grid.cols))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(c.grid.rows))
	binary.LittleEndian.PutUint32(hdr[8:], c.seed)
	binary.LittleEndian.PutUint32(hdr[12:], uint32(c.level))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(c.entrance))
	h.Write(hdr[:])
	buf := make([]byte, 2*len(c.grid.terrain))
	for i, t := range c.grid.terrain {
		buf[i] = byte(t)
	}
	for i, it := range c.grid.items {
		buf[len(c.grid.terrain)+i] = byte(it)
	}
	h.Write(buf)
	return h.Sum64()
}

// DigestString is Digest as 16 hex digits.
func (c *Chunk) DigestString() string {
	return fmt.Sprintf("%016x", c.Digest())
}

type chunkJSON struct {
	Cols       int               `json:"cols"`
	Rows       int               `json:"rows"`
	HexSize    float64           `json:"hex_size"`
	Viewport   hex.Viewport      `json:"viewport"`
	Seed       uint32            `json:"seed"`
	Level      int               `json:"level"`
	EntranceQ  int               `json:"entrance_q"`
	Difficulty difficulty.Params `json:"difficulty"`
	Terrain    []string          `json:"terrain"`
	Items      []string          `json:"items"`
	Repairs    int               `json:"repairs"`
	Digest     string            `json:"digest"`
}

// MarshalJSON encodes the chunk with its digest.
func (c *Chunk) MarshalJSON() ([]byte, error) {
	out := chunkJSON{
		Cols:       c.grid.cols,
		Rows:       c.grid.rows,
		HexSize:    c.hexSize,
		Viewport:   c.viewport,
		Seed:       c.seed,
		Level:      c.level,
		EntranceQ:  c.entrance,
		Difficulty: c.params,
		Terrain:    make([]string, len(c.grid.terrain)),
		Items:      make([]string, len(c.grid.items)),
		Repairs:    c.repairs,
		Digest:     c.DigestString(),
	}
	for i, t := range c.grid.terrain {
		out.Terrain[i] = t.String()
	}
	for i, it := range c.grid.items {
		out.Items[i] = it.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a chunk. A present digest must match.
func (c *Chunk) UnmarshalJSON(data []byte) error {
	var in chunkJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Cols <= 0 || in.Rows <= 0 {
		return fmt.Errorf("chunk: invalid dimensions %dx%d", in.Cols, in.Rows)
	}
	n := in.Cols * in.Rows
	if len(in.Terrain) != n || len(in.Items) != n {
		return fmt.Errorf("chunk: expected %d cells, got %d terrain and %d items", n, len(in.Terrain), len(in.Items))
	}
	if in.EntranceQ < 0 || in.EntranceQ >= in.Cols {
		return fmt.Errorf("chunk: entrance %d outside [0,%d)", in.EntranceQ, in.Cols)
	}
	if in.Level < 1 {
		return fmt.Errorf("chunk: invalid level %d", in.Level)
	}
	g := NewGrid(in.Cols, in.Rows)
	for i, s := range in.Terrain {
		t, err := ParseTerrain(s)
		if err != nil {
			return fmt.Errorf("chunk: cell %d: %w", i, err)
		}
		g.terrain[i] = t
	}
	for i, s := range in.Items {
		it, err := ParseItem(s)
		if err != nil {
			return fmt.Errorf("chunk: cell %d: %w", i, err)
		}
		g.items[i] = it
	}
	*c = Chunk{
		grid:     g,
		hexSize:  in.HexSize,
		viewport: in.Viewport,
		seed:     in.Seed,
		level:    in.Level,
		entrance: in.EntranceQ,
		params:   in.Difficulty,
		repairs:  in.Repairs,
	}
	if in.Digest != "" {
		want, err := strconv.ParseUint(in.Digest, 16, 64)
		if err != nil {
			return fmt.Errorf("chunk: bad digest %q: %w", in.Digest, err)
		}
		if got := c.Digest(); got != want {
			return fmt.Errorf("chunk: digest %016x does not match cells (%016x)", want, got)
		}
	}
	return nil
}
