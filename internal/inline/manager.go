package inline

import (
	"sync"

	"leadconsole/platform/logger"
)

type sessionKey struct {
	leadID   int64
	fieldKey string
}

// Manager enforces the ownership rule: exactly one live session per
// (lead, field) pair. Sessions register on open and release themselves
// when they return to viewing.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
	log      *logger.Logger
}

// NewManager creates an empty session manager.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[sessionKey]*Session),
		log:      log,
	}
}

// Open creates a session for the pair and activates editing. Returns
// ErrSessionLive when a session for the pair is already open.
func (m *Manager) Open(leadID int64, fieldKey, initialValue string, persist PersistFunc, hooks Hooks) (*Session, error) {
	key := sessionKey{leadID: leadID, fieldKey: fieldKey}

	m.mu.Lock()
	if _, live := m.sessions[key]; live {
		m.mu.Unlock()
		return nil, ErrSessionLive
	}

	session := &Session{
		leadID:   leadID,
		fieldKey: fieldKey,
		original: initialValue,
		state:    StateViewing,
		persist:  persist,
		hooks:    hooks,
		log:      m.log,
	}
	session.release = func() { m.remove(key) }
	m.sessions[key] = session
	m.mu.Unlock()

	if err := session.BeginEdit(); err != nil {
		m.remove(key)
		return nil, err
	}
	return session, nil
}

// Live returns the open session for the pair, if any.
func (m *Manager) Live(leadID int64, fieldKey string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{leadID: leadID, fieldKey: fieldKey}]
	return s, ok
}

// CloseAll closes every live session; in-flight saves will be discarded.
// Called when the list view is torn down or replaced.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}

func (m *Manager) remove(key sessionKey) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}
