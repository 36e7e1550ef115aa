// Package keylock provides per-key mutual exclusion with a bounded wait,
// used to serialize lending operations on the same book without blocking
// operations on other books.
package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when the lock cannot be acquired within the wait bound.
var ErrTimeout = errors.New("keylock: acquire timed out")

type entry struct {
	sem  chan struct{}
	refs int
}

// Map is a set of independent 1-slot locks addressed by string key.
// The zero value is not usable; call New.
type Map struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Map {
	return &Map{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for key is held, the wait elapses, or ctx is done.
// On success it returns a release func that must be called exactly once.
func (m *Map) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	e := m.ref(key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		release := func() {
			once.Do(func() {
				<-e.sem
				m.unref(key)
			})
		}
		return release, nil
	case <-timer.C:
		m.unref(key)
		return nil, ErrTimeout
	case <-ctx.Done():
		m.unref(key)
		return nil, ctx.Err()
	}
}

func (m *Map) ref(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Map) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}
