package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Billy-Davies-2/snake-draft/internal/draft"
	"github.com/Billy-Davies-2/snake-draft/internal/logger"
)

// ErrNotFound is returned when a key has no session and none may be created
var ErrNotFound = errors.New("session not found")

// Entry is one registered draft plus the slot it was last started with.
// Its fields may only be touched inside Manager.Do.
type Entry struct {
	Session  *draft.Session
	LastSlot int

	mu       sync.Mutex
	lastSeen time.Time
}

// Manager maps session keys to drafts. Calls for the same key are
// serialized; different keys proceed in parallel.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*Entry
	clock   clockwork.Clock
}

// NewManager returns an empty registry timed by clock
func NewManager(clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		entries: make(map[string]*Entry),
		clock:   clock,
	}
}

// NewKey returns a fresh random session key
func NewKey() string {
	return uuid.NewString()
}

// Do runs fn with exclusive access to key's entry. A missing entry is built
// with create; when create is nil Do returns ErrNotFound.
func (m *Manager) Do(key string, create func() *Entry, fn func(*Entry) error) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		if create == nil {
			m.mu.Unlock()
			return ErrNotFound
		}
		e = create()
		m.entries[key] = e
		logger.Debug("Session created", "session", key, "sessions", len(m.entries))
	}
	e.lastSeen = m.clock.Now()
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// Len returns the number of registered sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Delete drops key's session
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// EvictIdle removes sessions unseen for ttl and returns how many went.
// Sessions in use are skipped.
func (m *Manager) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := m.clock.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, e := range m.entries {
		if e.lastSeen.After(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(m.entries, key)
		e.mu.Unlock()
		evicted++
	}
	if evicted > 0 {
		logger.Info("Evicted idle sessions", "evicted", evicted, "remaining", len(m.entries))
	}
	return evicted
}
