package chunk

import (
	"testing"

	"github.com/sri-shubham/Everclimb/internal/rng"
)

func TestNextContinuity(t *testing.T) {
	for seed := uint32(1); seed <= 30; seed++ {
		prev := Generate(24, seed, 1)
		for i := 0; i < 10; i++ {
			next := Next(prev)
			d := next.EntranceQ() - prev.EntranceQ()
			if d < -1 || d > 1 {
				t.Fatalf("seed %d step %d: entrance moved %d -> %d", seed, i, prev.EntranceQ(), next.EntranceQ())
			}
			if next.EntranceQ() < 0 || next.EntranceQ() > prev.Cols()-1 {
				t.Fatalf("entrance %d outside [0,%d]", next.EntranceQ(), prev.Cols()-1)
			}
			if next.Level() != prev.Level()+1 {
				t.Fatalf("level %d after %d", next.Level(), prev.Level())
			}
			if next.Seed() != rng.CombineSeed(prev.Seed(), uint32(prev.Level()+1)) {
				t.Fatalf("next seed not derived from prev")
			}
			if next.HexSize() != prev.HexSize() || next.Viewport() != prev.Viewport() {
				t.Fatalf("hex size or viewport not inherited")
			}
			for r, ok := range Reachable(next) {
				if !ok {
					t.Fatalf("seed %d step %d: row %d unreachable", seed, i, r)
				}
			}
			prev = next
		}
	}
}

func TestNextDeterministic(t *testing.T) {
	prev := Generate(24, 0xDEADBEEF, 1)
	if Next(prev).Digest() != Next(prev).Digest() {
		t.Fatalf("next chunk is not reproducible")
	}
}

func TestNextEntranceEdges(t *testing.T) {
	g := NewGrid(5, 5)
	moved := map[int]bool{}
	for seed := uint32(0); seed < 200; seed++ {
		left := New(g, Meta{Seed: seed, Level: 1, EntranceQ: 0})
		if e := NextEntrance(left); e != 0 && e != 1 {
			t.Fatalf("entrance from column 0 went to %d", e)
		}
		right := New(g, Meta{Seed: seed, Level: 1, EntranceQ: 4})
		if e := NextEntrance(right); e != 3 && e != 4 {
			t.Fatalf("entrance from column 4 went to %d", e)
		}
		mid := New(g, Meta{Seed: seed, Level: 1, EntranceQ: 2})
		moved[NextEntrance(mid)-2] = true
	}
	for _, d := range []int{-1, 0, 1} {
		if !moved[d] {
			t.Fatalf("perturbation %d never drawn", d)
		}
	}
}
