// Package dedupe remembers recently completed actions so a repeated turn can
// be answered without repeating the side effect.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store records keys for a fixed window.
type Store interface {
	// Seen reports whether key was recorded within the window.
	Seen(ctx context.Context, key string) (bool, error)

	// Record marks key as done now.
	Record(ctx context.Context, key string) error
}

// Key joins parts into a store key. Parts are lower-cased because provider
// user and repository names are case-insensitive.
func Key(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "/"))
}

// Memory is an in-process Store.
type Memory struct {
	window time.Duration
	seen   map[string]time.Time
	mu     sync.Mutex
	now    func() time.Time
}

// NewMemory creates a new in-memory store with the given window.
func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Seen returns true if key was recorded less than a window ago.
func (m *Memory) Seen(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lastSeen, ok := m.seen[key]
	return ok && m.now().Sub(lastSeen) < m.window, nil
}

// Record marks key as done now and drops expired entries.
func (m *Memory) Record(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.seen[key] = now

	threshold := now.Add(-m.window)
	for k, t := range m.seen {
		if t.Before(threshold) {
			delete(m.seen, k)
		}
	}
	return nil
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
