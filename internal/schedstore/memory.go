package schedstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	schedules map[string]Schedule
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{schedules: make(map[string]Schedule)}
}

func (m *Memory) Save(_ context.Context, s *Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.Digest] = clone(s)
	return nil
}

func (m *Memory) Load(_ context.Context, digest string) (*Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[digest]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(&s)
	return &c, nil
}

func clone(s *Schedule) Schedule {
	c := *s
	c.Names = append([]string(nil), s.Names...)
	c.Order = append([]int(nil), s.Order...)
	return c
}
