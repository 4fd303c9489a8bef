package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/coursemate/coursemate/core"
)

// DefaultMaxHistory is the number of most recent exchanges rendered into the
// history summary. Older exchanges are retained but not surfaced.
const DefaultMaxHistory = 2

// InMemoryStore is a volatile SessionStore implementation storing sessions in
// a process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Returned sessions are clones to prevent
// external mutation of internal state. Nothing survives a process restart.
type InMemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*core.Session
	maxHistory int
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session), maxHistory: DefaultMaxHistory}
}

// SetMaxHistory overrides how many recent exchanges History renders.
// Values below 1 are ignored.
func (s *InMemoryStore) SetMaxHistory(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxHistory = n
}

// Get returns an existing session (clone) or creates a new one lazily.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).Clone(), nil
}

// AppendExchange records a completed query/answer pair.
func (s *InMemoryStore) AppendExchange(sessionID string, ex core.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(sessionID).AddExchange(ex)
	return nil
}

// History renders the most recent exchanges as a plain-text summary of the
// form "User: ...\nAssistant: ...". Returns "" for unknown or empty sessions.
func (s *InMemoryStore) History(sessionID string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	maxHistory := s.maxHistory
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}

	exchanges := sess.Exchanges()
	if len(exchanges) > maxHistory {
		exchanges = exchanges[len(exchanges)-maxHistory:]
	}

	lines := make([]string, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		lines = append(lines, fmt.Sprintf("User: %s", ex.Query))
		lines = append(lines, fmt.Sprintf("Assistant: %s", ex.Answer))
	}
	return strings.Join(lines, "\n"), nil
}

// getOrCreateLocked allocates and stores a new session if needed; caller must
// already hold the write lock.
func (s *InMemoryStore) getOrCreateLocked(sessionID string) *core.Session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = core.NewSession(sessionID)
		s.sessions[sessionID] = sess
	}
	return sess
}
