// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions live only as long as the process (the game keeps no state across
// restarts).
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Map access guarded by an RWMutex; each session has its own mutex so
//     moves on one session are strictly serialized while different sessions
//     proceed in parallel.
//   - Sessions idle longer than a TTL are removed by Prune.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/yahtzee/internal/game"
)

// ErrNotFound is returned for unknown or pruned session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the interface the HTTP layer uses to reach sessions.
type Store interface {
	// Save adds a new session (or replaces one with the same ID).
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn with exclusive access to the session.
	// The error from fn is returned as-is.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Prune drops sessions idle for longer than ttl and reports how many.
	Prune(ctx context.Context, ttl time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

type entry struct {
	mu       sync.Mutex // serializes moves on sess
	sess     *game.Session
	lastSeen time.Time // guarded by mu
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{sessions: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{sess: s, lastSeen: m.now()}
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.lastSeen = m.now()
	return fn(e.sess)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		e.mu.Lock()
		stale := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
