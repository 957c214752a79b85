// Package cache keeps generated chunks so repeated requests for the same seed
// and level skip generation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache stores chunks by the request that produced them.
type Cache interface {
	Get(ctx context.Context, k Key) (*chunk.Chunk, error)
	Put(ctx context.Context, k Key, c *chunk.Chunk) error
}

// Key identifies a generation request. Entrance is -1 when the generator picks
// the entrance itself.
type Key struct {
	Seed     uint32
	Level    int
	HexSize  float64
	Viewport hex.Viewport
	Entrance int
}

// KeyFor normalizes req the way the generator does and returns its key.
func KeyFor(req chunk.Request) Key {
	vp := req.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = hex.DefaultViewport
	}
	k := Key{
		Seed:     req.Seed,
		Level:    max(req.Level, 1),
		HexSize:  req.HexSize,
		Viewport: vp,
		Entrance: -1,
	}
	if req.Entrance != nil {
		// the generator clamps negative entrances to column 0
		k.Entrance = max(*req.Entrance, 0)
	}
	return k
}

// Request turns k back into a generation request.
func (k Key) Request() chunk.Request {
	req := chunk.Request{
		HexSize:  k.HexSize,
		Seed:     k.Seed,
		Level:    k.Level,
		Viewport: k.Viewport,
	}
	if k.Entrance >= 0 {
		e := k.Entrance
		req.Entrance = &e
	}
	return req
}

// String renders k as a stable cache key.
func (k Key) String() string {
	e := "auto"
	if k.Entrance >= 0 {
		e = strconv.Itoa(k.Entrance)
	}
	return fmt.Sprintf("%08x:%d:%g:%gx%g:%s", k.Seed, k.Level, k.HexSize, k.Viewport.Width, k.Viewport.Height, e)
}
