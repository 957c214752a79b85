package chunk

import (
	"testing"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/rng"
)

func TestBand(t *testing.T) {
	rows := 25
	if Band(rows-1, rows) != 0 {
		t.Fatalf("bottom row should be band 0")
	}
	if Band(0, rows) != 3 {
		t.Fatalf("top row should be band 3")
	}
	prev := Band(0, rows)
	for r := 1; r < rows; r++ {
		b := Band(r, rows)
		if b > prev {
			t.Fatalf("band should not increase going down: row %d band %d after %d", r, b, prev)
		}
		prev = b
	}
	if Band(0, 1) != 0 {
		t.Fatalf("single-row grid should be band 0")
	}
}

func TestPaintTerrainIceHeavierAtTop(t *testing.T) {
	g := NewGrid(40, 40)
	paintTerrain(g, rng.New(1234), difficulty.For(1))
	countIce := func(r0, r1 int) int {
		n := 0
		for r := r0; r < r1; r++ {
			for q := 0; q < g.Cols(); q++ {
				if g.TerrainAt(q, r) == Ice {
					n++
				}
			}
		}
		return n
	}
	top, bottom := countIce(0, 10), countIce(30, 40)
	if top <= bottom {
		t.Fatalf("expected more ice in the top band: top=%d bottom=%d", top, bottom)
	}
}

func TestPaintTerrainBoostsShiftMix(t *testing.T) {
	count := func(level int) (mud, ice int) {
		g := NewGrid(30, 30)
		paintTerrain(g, rng.New(77), difficulty.For(level))
		for _, tr := range g.terrain {
			switch tr {
			case Mud:
				mud++
			case Ice:
				ice++
			}
		}
		return
	}
	mud1, ice1 := count(1)
	mud50, ice50 := count(50)
	if mud50+ice50 <= mud1+ice1 {
		t.Fatalf("level 50 should paint more hazards: L1=%d L50=%d", mud1+ice1, mud50+ice50)
	}
}

func TestScatterCoinsWithinTarget(t *testing.T) {
	p := difficulty.For(1)
	for seed := uint32(1); seed <= 50; seed++ {
		g := NewGrid(19, 25)
		n := scatterCoins(g, rng.New(seed), p)
		if n < p.CoinsMin || n > p.CoinsMax {
			t.Fatalf("seed %d: placed %d coins, want [%d,%d]", seed, n, p.CoinsMin, p.CoinsMax)
		}
		if g.Count(Coin) != n {
			t.Fatalf("seed %d: grid holds %d coins, reported %d", seed, g.Count(Coin), n)
		}
		if g.Count(Food) != 0 || g.Count(Boots) != 0 {
			t.Fatalf("seed %d: coin scatter must not place food or boots", seed)
		}
	}
}

func TestScatterCoinsTinyGrid(t *testing.T) {
	g := NewGrid(2, 2)
	n := scatterCoins(g, rng.New(5), difficulty.For(1))
	if n > 4 {
		t.Fatalf("cannot place more coins than cells: %d", n)
	}
}

func TestSoftenTopRowsOnlyTouchesTop(t *testing.T) {
	g := NewGrid(10, 10)
	for i := range g.terrain {
		g.terrain[i] = Mud
	}
	p := difficulty.For(1)
	softenTopRows(g, rng.New(3), p)
	softened := 0
	for r := 0; r < g.Rows(); r++ {
		for q := 0; q < g.Cols(); q++ {
			if g.TerrainAt(q, r) == Stone {
				if r >= p.GentleTopRows {
					t.Fatalf("row %d softened outside gentle rows", r)
				}
				softened++
			}
		}
	}
	total := p.GentleTopRows * g.Cols()
	if softened == 0 || softened == total {
		t.Fatalf("expected roughly half of %d top mud cells softened, got %d", total, softened)
	}
}
