package chunk

import "testing"

func TestGridIndexing(t *testing.T) {
	g := NewGrid(4, 3)
	if got := g.Index(3, 2); got != 11 {
		t.Fatalf("expected index 11, got %d", got)
	}
	g.SetTerrain(1, 2, Ice)
	g.SetItem(1, 2, Coin)
	if g.TerrainAt(1, 2) != Ice || g.ItemAt(1, 2) != Coin {
		t.Fatalf("set/get mismatch")
	}
	if g.Count(Coin) != 1 || g.Count(None) != 11 {
		t.Fatalf("unexpected counts: coin=%d none=%d", g.Count(Coin), g.Count(None))
	}
}

func TestGridOutOfRangePanics(t *testing.T) {
	g := NewGrid(2, 2)
	for _, c := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for (%d,%d)", c[0], c[1])
				}
			}()
			g.TerrainAt(c[0], c[1])
		}()
	}
}

func TestGridClone(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	c.SetTerrain(0, 0, Mud)
	if g.TerrainAt(0, 0) != Dirt {
		t.Fatalf("clone shares storage with original")
	}
}

func TestTerrainAndItemNames(t *testing.T) {
	for _, tr := range Terrains {
		got, err := ParseTerrain(tr.String())
		if err != nil || got != tr {
			t.Fatalf("terrain %v did not parse back: %v %v", tr, got, err)
		}
	}
	for _, it := range Items {
		got, err := ParseItem(it.String())
		if err != nil || got != it {
			t.Fatalf("item %v did not parse back: %v %v", it, got, err)
		}
	}
	if _, err := ParseTerrain("lava"); err == nil {
		t.Fatalf("expected error for unknown terrain")
	}
}
