package chunk

import (
	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/rng"
)

const (
	coinChance   = 0.14
	gentleChance = 0.5
)

// scatterCoins places coins bottom-up until a target drawn from
// [CoinsMin, CoinsMax] is met or the grid runs out. It returns the number placed.
// The bounds hold for the scatter only: repair may later trade a coin for food
// in a row with no other mutable cell.
func scatterCoins(g *Grid, s *rng.Stream, p difficulty.Params) int {
	target := p.CoinsMin + s.Intn(p.CoinsMax-p.CoinsMin+1)
	placed := 0
	for r := g.rows - 1; r >= 0 && placed < target; r-- {
		for q := 0; q < g.cols && placed < target; q++ {
			if s.Chance(coinChance) && g.ItemAt(q, r) == None {
				g.SetItem(q, r, Coin)
				placed++
			}
		}
	}
	return placed
}

// softenTopRows turns about half the mud in the top GentleTopRows rows to stone.
func softenTopRows(g *Grid, s *rng.Stream, p difficulty.Params) {
	for r := 0; r < p.GentleTopRows && r < g.rows; r++ {
		for q := 0; q < g.cols; q++ {
			if g.TerrainAt(q, r) == Mud && s.Chance(gentleChance) {
				g.SetTerrain(q, r, Stone)
			}
		}
	}
}
