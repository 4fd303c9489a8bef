package core

import (
	"sync"
	"time"
)

// Exchange is one completed query/answer pair persisted in a session.
type Exchange struct {
	Query  string    `json:"query"`
	Answer string    `json:"answer"`
	At     time.Time `json:"at"`
}

// Session is a conversational container tracking the ordered exchange
// history for one external conversation. It is safe for concurrent access.
//
// Contract:
//   - AddExchange updates the Updated timestamp
//   - Exchanges returns a defensive copy to avoid external mutation
//   - Clone performs a deep copy for safe divergence
type Session struct {
	ID      string     `json:"id"`
	History []Exchange `json:"history"`
	Created time.Time  `json:"created"`
	Updated time.Time  `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates a new session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, History: []Exchange{}, Created: now, Updated: now}
}

// AddExchange appends a completed exchange updating the Updated timestamp.
func (s *Session) AddExchange(ex Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ex.At.IsZero() {
		ex.At = time.Now()
	}
	s.History = append(s.History, ex)
	s.Updated = time.Now()
}

// Exchanges returns a defensive copy of the exchange history.
func (s *Session) Exchanges() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Exchange, len(s.History))
	copy(history, s.History)
	return history
}

// Clone returns a deep copy of the session for safe divergence.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:      s.ID,
		History: make([]Exchange, len(s.History)),
		Created: s.Created,
		Updated: s.Updated,
	}
	copy(clone.History, s.History)
	return clone
}

// SessionStore defines persistence for conversational exchange history.
// Implementations must be safe for concurrent use; returned sessions are
// snapshots that callers may inspect without further locking.
type SessionStore interface {
	// Get returns an existing session or creates one lazily.
	Get(sessionID string) (*Session, error)

	// AppendExchange records a completed query/answer pair.
	AppendExchange(sessionID string, ex Exchange) error

	// History renders the most recent exchanges as a plain-text summary
	// suitable for folding into a system prompt. Returns "" for an empty
	// or unknown session.
	History(sessionID string) (string, error)
}
