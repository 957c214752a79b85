// Package route searches the full climb state space of a chunk. It is an
// independent check on the generator's reachability sweep: the sweep keeps one
// best state per cell and regime, while route keeps one per boots timer value.
package route

import (
	"container/heap"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

// Step is one position on a climb.
type Step struct {
	Cell    hex.Axial
	Stamina float64
	Boots   int
	Slid    bool // arrived by sliding over an ice cell
}

// Path is a climb from the bottom row to row 0.
type Path []Step

// Hexes returns how many hexes the climb crosses, counting a slide as both
// cells it passes.
func (p Path) Hexes() int {
	n := 0
	for i := 1; i < len(p); i++ {
		n += hex.DistanceAxial(p[i-1].Cell, p[i].Cell)
	}
	return n
}

// Pixels returns the center of every step in the flat-top layout.
func (p Path) Pixels(hexSize float64) [][2]float64 {
	out := make([][2]float64, len(p))
	for i, st := range p {
		x, y := hex.HexToPixel(st.Cell.Q, st.Cell.R, hexSize)
		out[i] = [2]float64{x, y}
	}
	return out
}

type key struct{ Q, R, Boots int }

type label struct {
	stamina float64
	slid    bool
	from    key
	root    bool
}

type search struct {
	c    *chunk.Chunk
	p    difficulty.Params
	best map[key]label
	open *nodePQ
}

// Climb returns a climb from some bottom cell to row 0, if one exists.
func Climb(c *chunk.Chunk, p difficulty.Params) (Path, bool) {
	s := run(c, p)
	var goal key
	found := false
	for k, l := range s.best {
		if k.R != 0 {
			continue
		}
		if !found || l.stamina > s.best[goal].stamina ||
			(l.stamina == s.best[goal].stamina && (k.Q < goal.Q || (k.Q == goal.Q && k.Boots < goal.Boots))) {
			goal, found = k, true
		}
	}
	if !found {
		return nil, false
	}
	path := Path{}
	for k := goal; ; {
		l := s.best[k]
		path = append(path, Step{Cell: hex.Axial{Q: k.Q, R: k.R}, Stamina: l.stamina, Boots: k.Boots, Slid: l.slid})
		if l.root {
			break
		}
		k = l.from
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// RowsReached reports, per row, whether any climb from the bottom ends a move
// in that row.
func RowsReached(c *chunk.Chunk, p difficulty.Params) []bool {
	s := run(c, p)
	out := make([]bool, c.Rows())
	for k := range s.best {
		out[k.R] = true
	}
	return out
}

func run(c *chunk.Chunk, p difficulty.Params) *search {
	s := &search{c: c, p: p, best: map[key]label{}, open: &nodePQ{}}
	heap.Init(s.open)
	bottom := c.Rows() - 1
	for q := 0; q < c.Cols(); q++ {
		st := p.StaminaBudget - s.cost(q, bottom)
		bt := 0
		switch c.ItemAt(q, bottom) {
		case chunk.Food:
			st += p.FoodValue
		case chunk.Boots:
			bt = p.BootsSteps
		}
		if st > 0 {
			s.offer(key{q, bottom, bt}, label{stamina: st, root: true})
		}
	}
	// Every move goes up, so popping the deepest row first settles each key
	// before it is expanded.
	for s.open.Len() > 0 {
		n := heap.Pop(s.open).(*pqNode)
		if l := s.best[n.k]; l.stamina > n.stamina {
			continue
		}
		s.expand(n.k, n.stamina)
	}
	return s
}

func (s *search) cost(q, r int) float64 {
	if s.c.TerrainAt(q, r) == chunk.Mud {
		return s.p.MudCost
	}
	return s.p.BaseCost
}

func (s *search) offer(k key, l label) {
	if old, ok := s.best[k]; ok && old.stamina >= l.stamina {
		return
	}
	s.best[k] = l
	heap.Push(s.open, &pqNode{k: k, stamina: l.stamina})
}

func (s *search) expand(k key, st float64) {
	from := hex.Axial{Q: k.Q, R: k.R}
	for _, d := range hex.ClimbDirs {
		at := from.Add(d)
		if !s.c.InBounds(at.Q, at.R) {
			continue
		}
		ns := st - s.cost(at.Q, at.R)
		bt := max(k.Boots-1, 0)
		slid := false
		if bt == 0 && s.c.TerrainAt(at.Q, at.R) == chunk.Ice {
			at = at.Add(d)
			if !s.c.InBounds(at.Q, at.R) {
				continue
			}
			ns -= s.cost(at.Q, at.R) + s.p.SlipCostExtra
			slid = true
		}
		q, r := at.Q, at.R
		switch s.c.ItemAt(q, r) {
		case chunk.Food:
			ns += s.p.FoodValue
		case chunk.Boots:
			bt = s.p.BootsSteps
		}
		if ns <= 0 {
			continue
		}
		s.offer(key{q, r, bt}, label{stamina: ns, slid: slid, from: k})
	}
}

type pqNode struct {
	k       key
	stamina float64
}

// nodePQ pops the deepest row first, then the highest stamina.
type nodePQ []*pqNode

func (p nodePQ) Len() int { return len(p) }
func (p nodePQ) Less(i, j int) bool {
	if p[i].k.R != p[j].k.R {
		return p[i].k.R > p[j].k.R
	}
	return p[i].stamina > p[j].stamina
}
func (p nodePQ) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p *nodePQ) Push(x any)   { *p = append(*p, x.(*pqNode)) }
func (p *nodePQ) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}
