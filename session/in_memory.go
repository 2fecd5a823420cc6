package session

import (
	"sort"
	"sync"
)

// InMemoryStore keeps sessions in a process local map. It is safe for
// concurrent access. Sessions are never evicted.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	optFns   []func(o *Options)
}

// NewInMemoryStore constructs an empty store. optFns apply to every session
// the store creates.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session), optFns: optFns}
}

// Get returns an existing session.
func (s *InMemoryStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	return sess, ok
}

// GetOrCreate returns the session for sessionID, creating it lazily. An
// empty id always creates a new session with a fresh id.
func (s *InMemoryStore) GetOrCreate(sessionID string) (*Session, bool) {
	if sessionID != "" {
		if sess, ok := s.Get(sessionID); ok {
			return sess, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok && sessionID != "" {
		return sess, false
	}
	sess := New(sessionID, s.optFns...)
	s.sessions[sess.ID()] = sess
	return sess, true
}

// IDs returns the known session ids in sorted order.
func (s *InMemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
