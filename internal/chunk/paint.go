package chunk

import (
	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/rng"
)

// bandWeights are the base {dirt, stone, mud, ice} weights per band. Band 0 is
// the deepest quarter of the chunk, band 3 the top quarter.
var bandWeights = [4][4]float64{
	{45, 35, 15, 5},
	{30, 40, 15, 15},
	{20, 35, 10, 35},
	{10, 25, 5, 60},
}

// Band classifies row r by its fractional depth from the top.
func Band(r, rows int) int {
	if rows <= 1 {
		return 0
	}
	f := float64(r) / float64(rows-1)
	switch {
	case f > 0.75:
		return 0
	case f > 0.5:
		return 1
	case f > 0.25:
		return 2
	default:
		return 3
	}
}

// pickTerrain draws one cell's terrain for band b.
func pickTerrain(b int, s *rng.Stream, p difficulty.Params) Terrain {
	w := bandWeights[b]
	w[Mud] += p.MudBoost
	w[Ice] += p.IceBoost
	idx, ok := s.Weighted(w[:])
	if !ok {
		return Stone
	}
	return Terrains[idx]
}

// paintTerrain fills every cell, row by row from the top.
func paintTerrain(g *Grid, s *rng.Stream, p difficulty.Params) {
	for r := 0; r < g.rows; r++ {
		b := Band(r, g.rows)
		for q := 0; q < g.cols; q++ {
			g.SetTerrain(q, r, pickTerrain(b, s, p))
		}
	}
}
