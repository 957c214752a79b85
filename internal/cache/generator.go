package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

// Generator is a read-through cache in front of a chunk generator. Cache
// failures are logged and fall back to generating.
type Generator struct {
	gen   *chunk.Generator
	cache Cache
	log   *slog.Logger
}

// NewGenerator wraps gen with c.
func NewGenerator(gen *chunk.Generator, c Cache, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{gen: gen, cache: c, log: log}
}

// Generate returns the cached chunk for req or generates and stores it.
func (g *Generator) Generate(ctx context.Context, req chunk.Request) (*chunk.Chunk, error) {
	k := KeyFor(req)
	c, err := g.cache.Get(ctx, k)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, ErrMiss):
	default:
		g.log.Warn("cache read failed", "key", k.String(), "error", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c = g.gen.Generate(req)
	if err := g.cache.Put(ctx, k, c); err != nil {
		g.log.Warn("cache write failed", "key", k.String(), "error", err)
	}
	return c, nil
}

// Next returns the chunk above prev, going through the cache.
func (g *Generator) Next(ctx context.Context, prev *chunk.Chunk) (*chunk.Chunk, error) {
	e := chunk.NextEntrance(prev)
	return g.Generate(ctx, chunk.Request{
		HexSize:  prev.HexSize(),
		Seed:     chunk.NextSeed(prev),
		Level:    prev.Level() + 1,
		Viewport: prev.Viewport(),
		Entrance: &e,
	})
}
