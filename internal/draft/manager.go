package draft

import (
	"sync"
	"time"

	"taller/internal/catalog"
	"taller/internal/core/apperror"
)

// Manager tracks open editing sessions. Sessions are in-memory only; an
// abandoned session simply expires, which is the "discarded on navigation
// away" lifecycle.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	catalog    *catalog.Store
	receptions ReceptionService
	materials  MaterialCreator
}

// NewManager creates a session manager. ttl bounds how long an idle session
// survives; zero disables expiry.
func NewManager(store *catalog.Store, receptions ReceptionService, materials MaterialCreator, ttl time.Duration) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		catalog:    store,
		receptions: receptions,
		materials:  materials,
	}
}

// Open creates a session with an empty draft.
func (m *Manager) Open() *Session {
	s := NewSession(m.catalog, m.receptions, m.materials)

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	m.sweepLocked()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, apperror.NewNotFound("draft session", id)
	}
	s.touch()
	return s, nil
}

// Close drops a session, discarding its draft.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// sweepLocked evicts sessions idle past the TTL.
func (m *Manager) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
