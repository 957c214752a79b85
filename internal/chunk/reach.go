package chunk

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
	"github.com/sri-shubham/Everclimb/internal/rng"
)

// state is a traversal state held in the boots-active arena.
type state struct {
	stamina float64
	boots   int
}

// Analyzer sweeps a grid bottom-up keeping, per cell, the best stamina a player
// can arrive with. Two arenas are kept: one for arrivals with no boots timer and
// one for arrivals with boots still active. A stamina of zero means unreached.
type Analyzer struct {
	g    *Grid
	p    difficulty.Params
	log  *slog.Logger
	idle []float64
	shod []state

	repairs    int
	rowRepairs []int
}

// NewAnalyzer allocates arenas sized to g.
func NewAnalyzer(g *Grid, p difficulty.Params, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	n := g.cols * g.rows
	return &Analyzer{
		g:          g,
		p:          p,
		log:        log,
		idle:       make([]float64, n),
		shod:       make([]state, n),
		rowRepairs: make([]int, g.rows),
	}
}

// Repairs returns how many cell mutations the analyzer has made.
func (a *Analyzer) Repairs() int { return a.repairs }

func (a *Analyzer) cost(q, r int) float64 {
	return a.g.TerrainAt(q, r).Cost(a.p)
}

// step applies one move in direction d from (q, r). ok is false when the move
// leaves the grid, slides off it, or ends with no stamina.
func (a *Analyzer) step(q, r int, st float64, bt int, d hex.Axial) (nq, nr int, ns float64, nb int, ok bool) {
	nq, nr = q+d.Q, r+d.R
	if !a.g.InBounds(nq, nr) {
		return 0, 0, 0, 0, false
	}
	st -= a.cost(nq, nr)
	if bt > 0 {
		bt--
	}
	if bt == 0 && a.g.TerrainAt(nq, nr).Slippery() {
		nq, nr = nq+d.Q, nr+d.R
		if !a.g.InBounds(nq, nr) {
			return 0, 0, 0, 0, false
		}
		st -= a.cost(nq, nr) + a.p.SlipCostExtra
	}
	switch a.g.ItemAt(nq, nr) {
	case Food:
		st += a.p.FoodValue
	case Boots:
		bt = a.p.BootsSteps
	}
	if st <= 0 {
		return 0, 0, 0, 0, false
	}
	return nq, nr, st, bt, true
}

// record keeps st at (q, r) if it beats what the matching arena already holds.
func (a *Analyzer) record(q, r int, st float64, bt int) {
	i := a.g.Index(q, r)
	if bt > 0 {
		cur := &a.shod[i]
		if st > cur.stamina || (st == cur.stamina && bt > cur.boots) {
			*cur = state{stamina: st, boots: bt}
		}
		return
	}
	if st > a.idle[i] {
		a.idle[i] = st
	}
}

// seedBottom places the entry states: the player may enter the bottom row at
// any column with a full stamina budget.
func (a *Analyzer) seedBottom() {
	r := a.g.rows - 1
	for q := 0; q < a.g.cols; q++ {
		st := a.p.StaminaBudget - a.cost(q, r)
		bt := 0
		switch a.g.ItemAt(q, r) {
		case Food:
			st += a.p.FoodValue
		case Boots:
			bt = a.p.BootsSteps
		}
		if st > 0 {
			a.record(q, r, st, bt)
		}
	}
}

func (a *Analyzer) propagate(r int) {
	for q := 0; q < a.g.cols; q++ {
		i := r*a.g.cols + q
		if st := a.idle[i]; st > 0 {
			for _, d := range hex.ClimbDirs {
				if nq, nr, ns, nb, ok := a.step(q, r, st, 0, d); ok {
					a.record(nq, nr, ns, nb)
				}
			}
		}
		if s := a.shod[i]; s.stamina > 0 {
			for _, d := range hex.ClimbDirs {
				if nq, nr, ns, nb, ok := a.step(q, r, s.stamina, s.boots, d); ok {
					a.record(nq, nr, ns, nb)
				}
			}
		}
	}
}

func (a *Analyzer) rowAlive(r int) bool {
	lo, hi := r*a.g.cols, (r+1)*a.g.cols
	for i := lo; i < hi; i++ {
		if a.idle[i] > 0 || a.shod[i].stamina > 0 {
			return true
		}
	}
	return false
}

// clearThrough wipes rows 0..r in both arenas.
func (a *Analyzer) clearThrough(r int) {
	n := (r + 1) * a.g.cols
	clear(a.idle[:n])
	clear(a.shod[:n])
}

// Rows returns per-row reachability from the current arenas.
func (a *Analyzer) Rows() []bool {
	out := make([]bool, a.g.rows)
	for r := range out {
		out[r] = a.rowAlive(r)
	}
	return out
}

// Sweep analyzes the grid bottom-up and repairs every row no state reaches,
// drawing repair decisions from s. On return every row of the grid is alive.
func (a *Analyzer) Sweep(s *rng.Stream) {
	last := a.g.rows - 1
	a.clearThrough(last)
	a.seedBottom()
	for !a.rowAlive(last) {
		a.repair(last, s)
		a.clearThrough(last)
		a.seedBottom()
	}
	for r := last; r >= 1; r-- {
		a.propagate(r)
		if a.rowAlive(r - 1) {
			continue
		}
		a.repair(r-1, s)
		a.clearThrough(r - 1)
		// Replay from the row below so slides landing in r-1 are re-derived.
		// The loop decrement lands on min(r+1, last).
		r = min(r+1, last) + 1
	}
}

// analyze propagates every row without repairing anything.
func (a *Analyzer) analyze() []bool {
	last := a.g.rows - 1
	a.clearThrough(last)
	a.seedBottom()
	for r := last; r >= 1; r-- {
		a.propagate(r)
	}
	return a.Rows()
}

// terminal reports whether the cell at i needs no further repair.
func (a *Analyzer) terminal(i int) bool {
	return !a.g.terrain[i].Hazard() && a.g.items[i] == Food
}

func (a *Analyzer) mutable(i int, allowCoin bool) bool {
	if a.terminal(i) {
		return false
	}
	if a.g.items[i] == Coin && !a.g.terrain[i].Hazard() {
		return allowCoin
	}
	return true
}

// nearestMutable searches outward from pick, preferring cells that keep their coin.
func (a *Analyzer) nearestMutable(r, pick int) (q int, allowCoin bool, ok bool) {
	for _, allow := range [...]bool{false, true} {
		for d := 0; d < a.g.cols; d++ {
			for _, c := range [...]int{pick - d, pick + d} {
				if c < 0 || c >= a.g.cols {
					continue
				}
				if a.mutable(r*a.g.cols+c, allow) {
					return c, allow, true
				}
			}
		}
	}
	return 0, false, false
}

// repair advances one cell of row r by one rung of the mutation ladder.
func (a *Analyzer) repair(r int, s *rng.Stream) {
	cols := a.g.cols
	a.rowRepairs[r]++
	if a.rowRepairs[r] > 3*cols+1 {
		panic(fmt.Sprintf("chunk: row %d still unreachable after %d repairs", r, a.rowRepairs[r]-1))
	}
	u := s.Float64()
	pick := clampCol(int(math.Floor(float64(cols)*0.3+u*float64(cols)*0.4)), cols)
	q, allowCoin, ok := a.nearestMutable(r, pick)
	if !ok {
		panic(fmt.Sprintf("chunk: row %d has no mutable cell left", r))
	}
	i := r*cols + q
	before, beforeItem := a.g.terrain[i], a.g.items[i]
	preferItem := s.Chance(a.p.FoodRate)
	switch it := a.g.items[i]; {
	case preferItem && it == None:
		if s.Chance(a.p.BootsRate) {
			a.g.items[i] = Boots
		} else {
			a.g.items[i] = Food
		}
	case a.g.terrain[i].Hazard():
		a.g.terrain[i] = Stone
	case it == None, it == Boots, it == Coin && allowCoin:
		a.g.items[i] = Food
	default:
		panic(fmt.Sprintf("chunk: cell (%d,%d) selected for repair but immutable", q, r))
	}
	a.repairs++
	a.log.Debug("repaired cell",
		"q", q, "r", r,
		"terrain", before.String()+"->"+a.g.terrain[i].String(),
		"item", beforeItem.String()+"->"+a.g.items[i].String())
}

func clampCol(q, cols int) int {
	return max(0, min(q, cols-1))
}

// Reachable reports, per row, whether some climb from the bottom row arrives in
// that row under c's own difficulty parameters. The chunk is not modified.
func Reachable(c *Chunk) []bool {
	return NewAnalyzer(c.grid, c.params, nil).analyze()
}
