package chunk

import (
	"testing"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

func TestGenerateScenarioDeadBeef(t *testing.T) {
	c := Generate(24, 0xDEADBEEF, 1)
	wantCols, wantRows := hex.FlatTop.GridSize(24, hex.DefaultViewport)
	if c.Cols() != wantCols || c.Rows() != wantRows {
		t.Fatalf("dims %dx%d, want %dx%d", c.Cols(), c.Rows(), wantCols, wantRows)
	}
	if c.Cols() != 19 || c.Rows() != 25 {
		t.Fatalf("dims %dx%d, want 19x25", c.Cols(), c.Rows())
	}
	for r, ok := range Reachable(c) {
		if !ok {
			t.Fatalf("row %d unreachable", r)
		}
	}
	p := difficulty.For(1)
	if n := c.Count(Coin); n < p.CoinsMin || n > p.CoinsMax {
		t.Fatalf("coins = %d, want [%d,%d]", n, p.CoinsMin, p.CoinsMax)
	}
	if e := c.EntranceQ(); e < 0 || e >= c.Cols() {
		t.Fatalf("entrance %d outside grid", e)
	}
}

// Repair choices and coin placement draw from the chunk's seeded stream, so a
// stored seed regenerates the exact chunk. Earlier builds used an unseeded
// source for some repair decisions and could not guarantee this.
func TestGenerateDeterministic(t *testing.T) {
	for _, level := range []int{1, 20, 60} {
		a := Generate(24, 12345, level)
		b := Generate(24, 12345, level)
		if a.Digest() != b.Digest() {
			t.Fatalf("level %d: digests differ", level)
		}
		at, bt := a.Terrain(), b.Terrain()
		ai, bi := a.Items(), b.Items()
		for i := range at {
			if at[i] != bt[i] || ai[i] != bi[i] {
				t.Fatalf("level %d: cell %d differs", level, i)
			}
		}
		if a.EntranceQ() != b.EntranceQ() || a.Repairs() != b.Repairs() {
			t.Fatalf("level %d: entrance or repairs differ", level)
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	if Generate(24, 1, 1).Digest() == Generate(24, 2, 1).Digest() {
		t.Fatalf("different seeds produced the same chunk")
	}
}

func TestGenerateLevelFloor(t *testing.T) {
	for _, level := range []int{0, -3} {
		c := Generate(24, 9, level)
		if c.Level() != 1 {
			t.Fatalf("level %d stored as %d, want 1", level, c.Level())
		}
		if c.Digest() != Generate(24, 9, 1).Digest() {
			t.Fatalf("level %d should generate the level 1 chunk", level)
		}
	}
}

func TestGenerateEntrance(t *testing.T) {
	g := NewGenerator()
	for _, tc := range []struct{ in, want int }{
		{in: 4, want: 4},
		{in: -2, want: 0},
		{in: 500, want: 18},
	} {
		in := tc.in
		c := g.Generate(Request{HexSize: 24, Seed: 3, Level: 1, Entrance: &in})
		if c.EntranceQ() != tc.want {
			t.Fatalf("entrance %d -> %d, want %d", tc.in, c.EntranceQ(), tc.want)
		}
	}
	for seed := uint32(0); seed < 100; seed++ {
		c := Generate(24, seed, 1)
		if e := c.EntranceQ(); e < 7 || e > 11 {
			t.Fatalf("seed %d: default entrance %d should sit near the middle column", seed, e)
		}
	}
}

func TestGenerateCustomViewportAndSizer(t *testing.T) {
	c := NewGenerator().Generate(Request{HexSize: 24, Seed: 1, Level: 1, Viewport: hex.Viewport{Width: 1280, Height: 720}})
	if c.Cols() <= 19 || c.Rows() <= 25 {
		t.Fatalf("larger viewport should give a larger grid, got %dx%d", c.Cols(), c.Rows())
	}
	if c.Viewport().Width != 1280 {
		t.Fatalf("viewport not recorded: %+v", c.Viewport())
	}

	fixed := hex.SizerFunc(func(float64, hex.Viewport) (int, int) { return 7, 9 })
	c = NewGenerator(WithSizer(fixed)).Generate(Request{HexSize: 24, Seed: 1, Level: 1})
	if c.Cols() != 7 || c.Rows() != 9 {
		t.Fatalf("custom sizer ignored: %dx%d", c.Cols(), c.Rows())
	}
	if c.Viewport() != hex.DefaultViewport {
		t.Fatalf("zero viewport should resolve to the default, got %+v", c.Viewport())
	}
}

func TestGenerateTinyGrids(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 6}, {6, 1}, {2, 2}} {
		cols, rows := dims[0], dims[1]
		sizer := hex.SizerFunc(func(float64, hex.Viewport) (int, int) { return cols, rows })
		g := NewGenerator(WithSizer(sizer))
		for level := 1; level <= 60; level += 7 {
			c := g.Generate(Request{HexSize: 24, Seed: uint32(level), Level: level})
			for r, ok := range Reachable(c) {
				if !ok {
					t.Fatalf("%dx%d level %d: row %d unreachable", cols, rows, level, r)
				}
			}
		}
	}
}

func TestGenerateWithCurve(t *testing.T) {
	curve := difficulty.DefaultCurve()
	curve.IceBoost = difficulty.Linear{Base: 500, Min: 500, Max: 500}
	c := NewGenerator(WithCurve(curve)).Generate(Request{HexSize: 24, Seed: 11, Level: 1})
	if c.Params().IceBoost != 500 {
		t.Fatalf("curve override not applied: %v", c.Params().IceBoost)
	}
	ice := 0
	for _, tr := range c.Terrain() {
		if tr == Ice {
			ice++
		}
	}
	if ice < len(c.Terrain())/2 {
		t.Fatalf("expected an icy chunk, got %d/%d ice cells", ice, len(c.Terrain()))
	}
	for r, ok := range Reachable(c) {
		if !ok {
			t.Fatalf("row %d unreachable", r)
		}
	}
}
