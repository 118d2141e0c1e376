package session

import (
	"context"
	"path/filepath"
	"sync"
)

// Manager routes opens to sessions, holding exactly one session per
// absolute config path. Opening a document that is already open reloads
// the existing session instead of creating a second one over the same
// file.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
}

// NewManager creates a Manager applying opts to every session it loads.
func NewManager(opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Open returns the session for file, loading it on first open and
// reloading it on every later one.
func (m *Manager) Open(ctx context.Context, file string) (*Session, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, &IOError{Op: "resolve", File: file, Err: err}
	}

	m.mu.Lock()
	existing := m.sessions[abs]
	m.mu.Unlock()

	if existing != nil {
		if err := existing.Reload(ctx); err != nil {
			return nil, err
		}
		return existing, nil
	}

	s, err := Load(ctx, abs, m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A racing open may have won; keep the registered one.
	if winner, ok := m.sessions[abs]; ok {
		m.mu.Unlock()
		return winner, nil
	}
	m.sessions[abs] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the open session for file, if any.
func (m *Manager) Get(file string) (*Session, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[abs]
	return s, ok
}

// ByID returns the open session with the given ID, if any.
func (m *Manager) ByID(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Close invalidates and forgets the session for file.
func (m *Manager) Close(file string) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return
	}
	m.mu.Lock()
	s, ok := m.sessions[abs]
	delete(m.sessions, abs)
	m.mu.Unlock()

	if ok {
		s.Invalidate()
	}
}

// Sessions returns all open sessions.
func (m *Manager) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
