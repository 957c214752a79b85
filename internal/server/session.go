package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/climb"
	"github.com/sri-shubham/Everclimb/pkg/models"
)

var errNotStarted = errors.New("climb not started")

// Session is one client's climb through the chunk stack
type Session struct {
	ID        string
	CreatedAt time.Time

	climber *models.Climber
	src     climb.Source
	log     *slog.Logger

	mu       sync.Mutex
	prefetch bool
	climb    *climb.Climb
	current  *chunk.Chunk
}

// NewSession creates a session for climber
func NewSession(climber *models.Climber, src climb.Source, prefetch bool, log *slog.Logger) *Session {
	id := uuid.NewString()
	now := time.Now()
	climber.SessionID = id
	climber.ConnectedAt = now
	climber.LastSeen = now
	return &Session{
		ID:        id,
		CreatedAt: now,
		climber:   climber,
		src:       src,
		prefetch:  prefetch,
		log:       log.With("session", id),
	}
}

// Start begins (or restarts) the climb at first
func (s *Session) Start(first *chunk.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.climb != nil {
		s.climb.Close()
		s.climb = nil
	}
	s.current = first
	if s.prefetch {
		s.climb = climb.New(s.src, first, s.log)
	}
	s.touch(first)
}

// Next moves to the chunk above the current one
func (s *Session) Next(ctx context.Context) (*chunk.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, errNotStarted
	}
	var (
		next *chunk.Chunk
		err  error
	)
	if s.climb != nil {
		next, err = s.climb.Advance(ctx)
	} else {
		next, err = s.src.Next(ctx, s.current)
	}
	if err != nil {
		return nil, err
	}
	s.current = next
	s.touch(next)
	return next, nil
}

func (s *Session) touch(c *chunk.Chunk) {
	s.climber.Seed = c.Seed()
	s.climber.Level = c.Level()
	s.climber.LastSeen = time.Now()
}

// Close stops background generation
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.climb != nil {
		s.climb.Close()
	}
}
