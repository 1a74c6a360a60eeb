package state

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. Values are copied in and out, so callers
// must not share pointers inside T across sessions.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	sessions map[Key]T
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{sessions: make(map[Key]T)}
}

// Get returns the stored value or the zero value when the key is unknown.
func (m *MemoryStore[T]) Get(_ context.Context, key Key) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[key], nil
}

// Set replaces the value stored under key.
func (m *MemoryStore[T]) Set(_ context.Context, key Key, value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = value
	return nil
}

// Reset forgets the value stored under key.
func (m *MemoryStore[T]) Reset(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore[T]) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}
