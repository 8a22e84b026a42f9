package state

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps state values in process. Only usable with a single replica.
type Memory struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemory creates an in-process store.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, time.Minute)}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, state string, entry Entry) error {
	m.c.SetDefault(state, entry)
	return nil
}

// Consume implements Store.
func (m *Memory) Consume(_ context.Context, state string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(state)
	if !ok {
		return Entry{}, ErrStateNotFound
	}

	m.c.Delete(state)

	entry, _ := v.(Entry)

	return entry, nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
