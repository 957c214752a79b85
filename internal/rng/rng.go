// Package rng provides the deterministic random stream every chunk decision is
// drawn from, plus the seed combinator used to chain chunks.
package rng

// Stream is a mulberry32 generator. A Stream is owned by exactly one
// generation call and is not safe for concurrent use.
type Stream struct {
	seed  uint32
	state uint32
	draws uint64
}

// New returns a stream positioned at the start of seed's sequence.
func New(seed uint32) *Stream {
	return &Stream{seed: seed, state: seed}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint32 { return s.seed }

// Draws returns how many values have been taken from the stream.
func (s *Stream) Draws() uint64 { return s.draws }

// Uint32 returns the next raw 32-bit value.
func (s *Stream) Uint32() uint32 {
	s.draws++
	s.state += 0x6D2B79F5
	t := s.state
	x := (t ^ (t >> 15)) * (1 | t)
	x ^= x + (x^(x>>7))*(61|x)
	return x ^ (x >> 14)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint32()) / 4294967296.0
}

// Intn returns a value in [0, n). n <= 0 yields 0 without consuming a draw.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// IntRange returns a value in [lo, hi].
func (s *Stream) IntRange(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Chance reports true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.Float64() < p
}

// Weighted draws an index proportionally to weights. ok is false when the roll
// does not land on any weight (all weights zero or floating-point residue); the
// draw is consumed either way.
func (s *Stream) Weighted(weights []float64) (idx int, ok bool) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	roll := s.Float64() * sum
	for i, w := range weights {
		roll -= w
		if roll <= 0 && w > 0 {
			return i, true
		}
	}
	return -1, false
}
