// Package climb tracks a player's run through an endless stack of chunks. The
// chunk above the current one is generated in the background so it is ready
// when the player reaches the top.
package climb

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

// Source produces the chunk stacked on top of prev.
type Source interface {
	Next(ctx context.Context, prev *chunk.Chunk) (*chunk.Chunk, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, prev *chunk.Chunk) (*chunk.Chunk, error)

// Next calls f.
func (f SourceFunc) Next(ctx context.Context, prev *chunk.Chunk) (*chunk.Chunk, error) {
	return f(ctx, prev)
}

// FromGenerator wraps a generator as a Source.
func FromGenerator(g *chunk.Generator) Source {
	return SourceFunc(func(_ context.Context, prev *chunk.Chunk) (*chunk.Chunk, error) {
		return g.Next(prev), nil
	})
}

// ErrClosed is returned once the climb has been closed.
var ErrClosed = errors.New("climb closed")

// DefaultHistory is how many passed chunks are kept for lookup by level.
const DefaultHistory = 8

type prefetch struct {
	done  chan struct{}
	chunk *chunk.Chunk
	err   error
}

// Climb holds the current chunk and the one being prepared above it. It is
// safe for concurrent use.
type Climb struct {
	src     Source
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	history int

	mu      sync.RWMutex
	current *chunk.Chunk
	next    *prefetch
	visited map[int]*chunk.Chunk
	closed  bool
}

// New starts a climb at first and begins preparing the chunk above it.
func New(src Source, first *chunk.Chunk, log *slog.Logger) *Climb {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Climb{
		src:     src,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		history: DefaultHistory,
		current: first,
		visited: map[int]*chunk.Chunk{first.Level(): first},
	}
	c.next = c.start(first)
	log.Info("climb started", "seed", first.Seed(), "level", first.Level())
	return c
}

// start generates the chunk above prev on its own goroutine. The result is
// only visible through done once generation has fully finished.
func (c *Climb) start(prev *chunk.Chunk) *prefetch {
	p := &prefetch{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.chunk, p.err = c.src.Next(c.ctx, prev)
		if p.err != nil {
			c.log.Warn("prefetch failed", "level", prev.Level()+1, "error", p.err)
		}
	}()
	return p
}

// Current returns the chunk the player is climbing.
func (c *Climb) Current() *chunk.Chunk {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Level returns the current chunk's level.
func (c *Climb) Level() int {
	return c.Current().Level()
}

// Chunk returns a recently visited chunk by level.
func (c *Climb) Chunk(level int) (*chunk.Chunk, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.visited[level]
	return ch, ok
}

// Peek waits for the chunk above the current one without moving to it.
func (c *Climb) Peek(ctx context.Context) (*chunk.Chunk, error) {
	c.mu.RLock()
	p, closed := c.next, c.closed
	c.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	return wait(ctx, p)
}

// Advance moves the player into the chunk above and starts preparing the one
// after it. It blocks until the next chunk is complete.
func (c *Climb) Advance(ctx context.Context) (*chunk.Chunk, error) {
	c.mu.RLock()
	p, closed := c.next, c.closed
	c.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	next, err := wait(ctx, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.next != p {
		// another caller advanced first
		return c.current, nil
	}
	c.current = next
	c.visited[next.Level()] = next
	delete(c.visited, next.Level()-c.history)
	c.next = c.start(next)
	c.log.Debug("advanced", "level", next.Level(), "entrance", next.EntranceQ())
	return next, nil
}

// Close stops any background generation. Further Peek and Advance calls fail.
func (c *Climb) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

func wait(ctx context.Context, p *prefetch) (*chunk.Chunk, error) {
	select {
	case <-p.done:
		return p.chunk, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
