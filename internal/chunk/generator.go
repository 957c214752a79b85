package chunk

import (
	"log/slog"
	"math"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
	"github.com/sri-shubham/Everclimb/internal/rng"
)

// Generator builds chunks. It holds no per-call state and is safe for
// concurrent use; every Generate call owns its grid and random stream.
type Generator struct {
	curve difficulty.Curve
	sizer hex.Sizer
	log   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCurve replaces the default difficulty curve.
func WithCurve(c difficulty.Curve) Option {
	return func(g *Generator) { g.curve = c }
}

// WithSizer replaces the flat-top grid sizer.
func WithSizer(s hex.Sizer) Option {
	return func(g *Generator) { g.sizer = s }
}

// WithLogger sets the logger used for repair and generation events.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// NewGenerator returns a generator using the default curve and flat-top sizing
// unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		curve: difficulty.DefaultCurve(),
		sizer: hex.FlatTop,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Params returns the difficulty knobs this generator uses for level.
func (g *Generator) Params(level int) difficulty.Params {
	return g.curve.For(level)
}

// Request holds the inputs of one Generate call. A zero Viewport means
// hex.DefaultViewport. A nil Entrance lets the generator pick one.
type Request struct {
	HexSize  float64
	Seed     uint32
	Level    int
	Viewport hex.Viewport
	Entrance *int
}

// Generate builds one complete chunk. The result depends only on req and the
// generator's curve and sizer.
func (g *Generator) Generate(req Request) *Chunk {
	level := max(req.Level, 1)
	vp := req.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = hex.DefaultViewport
	}
	cols, rows := g.sizer.GridSize(req.HexSize, vp)
	p := g.curve.For(level)
	s := rng.New(req.Seed)

	// 1. terrain
	grid := NewGrid(cols, rows)
	paintTerrain(grid, s, p)

	// 2. coins, then ease the final approach
	coins := scatterCoins(grid, s, p)
	softenTopRows(grid, s, p)

	// 3. reachability sweep with repair
	log := g.log.With("seed", req.Seed, "level", level)
	a := NewAnalyzer(grid, p, log)
	a.Sweep(s)

	// 4. entrance
	var entrance int
	if req.Entrance != nil {
		entrance = clampCol(*req.Entrance, cols)
	} else {
		u := s.Float64()
		entrance = clampCol(int(math.Floor(float64(cols)*0.5+(u-0.5)*4)), cols)
	}

	log.Debug("generated chunk",
		"cols", cols, "rows", rows,
		"coins", coins, "repairs", a.Repairs(),
		"entrance", entrance, "draws", s.Draws())

	return &Chunk{
		grid:     grid,
		hexSize:  req.HexSize,
		viewport: vp,
		seed:     req.Seed,
		level:    level,
		entrance: entrance,
		params:   p,
		repairs:  a.Repairs(),
	}
}

// Default is the generator behind the package-level helpers.
var Default = NewGenerator()

// Generate builds a chunk for the default viewport using Default.
func Generate(hexSize float64, seed uint32, level int) *Chunk {
	return Default.Generate(Request{HexSize: hexSize, Seed: seed, Level: level})
}

// Next builds the chunk stacked on top of prev using Default.
func Next(prev *Chunk) *Chunk {
	return Default.Next(prev)
}
