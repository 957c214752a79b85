package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

// Memory is an in-process LRU cache.
type Memory struct {
	mu    sync.Mutex
	cap   int
	order *list.List // front is most recent
	items map[Key]*list.Element
}

type memEntry struct {
	key   Key
	chunk *chunk.Chunk
}

// NewMemory returns a cache holding at most capacity chunks.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 64
	}
	return &Memory{
		cap:   capacity,
		order: list.New(),
		items: make(map[Key]*list.Element),
	}
}

// Get returns the cached chunk and marks it recently used.
func (m *Memory) Get(_ context.Context, k Key) (*chunk.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.items[k]
	if !ok {
		return nil, ErrMiss
	}
	m.order.MoveToFront(el)
	return el.Value.(*memEntry).chunk, nil
}

// Put stores c, evicting the least recently used entry when full.
func (m *Memory) Put(_ context.Context, k Key, c *chunk.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[k]; ok {
		el.Value.(*memEntry).chunk = c
		m.order.MoveToFront(el)
		return nil
	}
	m.items[k] = m.order.PushFront(&memEntry{key: k, chunk: c})
	for m.order.Len() > m.cap {
		last := m.order.Back()
		m.order.Remove(last)
		delete(m.items, last.Value.(*memEntry).key)
	}
	return nil
}

// Len returns the number of cached chunks.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
