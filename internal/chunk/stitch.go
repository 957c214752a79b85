package chunk

import "github.com/sri-shubham/Everclimb/internal/rng"

// entranceSalt separates the entrance-perturbation stream from the chunk's own.
const entranceSalt = 0x5717C4

// NextSeed derives the seed of the chunk above prev.
func NextSeed(prev *Chunk) uint32 {
	return rng.CombineSeed(prev.seed, uint32(prev.level+1))
}

// NextEntrance moves prev's entrance by at most one column, staying inside
// prev's grid.
func NextEntrance(prev *Chunk) int {
	s := rng.New(rng.CombineSeed(NextSeed(prev), entranceSalt))
	d := 0
	if !s.Chance(0.5) {
		if s.Chance(0.5) {
			d = -1
		} else {
			d = 1
		}
	}
	return clampCol(prev.entrance+d, prev.Cols())
}

// Next generates the chunk that continues the climb above prev: one level
// deeper, same hex size and viewport, entrance aligned with prev's.
func (g *Generator) Next(prev *Chunk) *Chunk {
	e := NextEntrance(prev)
	return g.Generate(Request{
		HexSize:  prev.hexSize,
		Seed:     NextSeed(prev),
		Level:    prev.level + 1,
		Viewport: prev.viewport,
		Entrance: &e,
	})
}
