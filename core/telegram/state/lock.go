package state

import (
	"context"
	"sync"
)

// KeyedMutex grants exclusive access per Key. Waiters on the same key are
// served in the order they called Lock; different keys never block each other.
type KeyedMutex struct {
	mu   sync.Mutex
	keys map[Key]*keyQueue
}

type keyQueue struct {
	waiters []chan struct{}
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{keys: make(map[Key]*keyQueue)}
}

// Lock blocks until key is free or ctx is done. The returned func releases
// the lock and is safe to call more than once.
func (m *KeyedMutex) Lock(ctx context.Context, key Key) (func(), error) {
	m.mu.Lock()
	q, held := m.keys[key]
	if !held {
		m.keys[key] = &keyQueue{}
		m.mu.Unlock()
		return m.unlocker(key), nil
	}
	ch := make(chan struct{})
	q.waiters = append(q.waiters, ch)
	m.mu.Unlock()

	select {
	case <-ch:
		return m.unlocker(key), nil
	case <-ctx.Done():
		m.mu.Lock()
		for i, w := range q.waiters {
			if w == ch {
				q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
				m.mu.Unlock()
				return nil, ctx.Err()
			}
		}
		m.mu.Unlock()
		// Ownership was handed over while ctx expired; pass it on.
		m.release(key)
		return nil, ctx.Err()
	}
}

func (m *KeyedMutex) unlocker(key Key) func() {
	var once sync.Once
	return func() { once.Do(func() { m.release(key) }) }
}

func (m *KeyedMutex) release(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.keys[key]
	if !ok {
		return
	}
	if len(q.waiters) == 0 {
		delete(m.keys, key)
		return
	}
	next := q.waiters[0]
	q.waiters = q.waiters[1:]
	close(next)
}

// Held reports how many keys are currently locked.
func (m *KeyedMutex) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
