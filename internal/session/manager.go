package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns all live sessions. Each session's state is fully isolated;
// the only component shared across sessions is the stateless model client.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	ttl           time.Duration
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// DefaultTTL is how long an idle session survives before the sweeper drops it.
const DefaultTTL = 2 * time.Hour

// NewManager creates a session manager. A ttl of zero disables expiry.
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
	if ttl > 0 {
		m.cleanupTicker = time.NewTicker(ttl / 4)
		m.cleanupStop = make(chan struct{})
		go m.cleanup()
	}
	return m
}

// Create starts a fresh session and returns it.
func (m *Manager) Create() *Session {
	s := newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

// Delete removes a session. Missing IDs are a no-op.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// cleanup drops sessions idle longer than the TTL.
func (m *Manager) cleanup() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.sweep()
		case <-m.cleanupStop:
			return
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if expired {
			delete(m.sessions, id)
		}
	}
}

// Stop halts the sweeper goroutine.
func (m *Manager) Stop() {
	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
	}
	if m.cleanupStop != nil {
		close(m.cleanupStop)
	}
}
