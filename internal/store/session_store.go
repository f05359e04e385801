package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/metrics"
)

// Session is one visitor's in-memory dashboard state
type Session struct {
	ID         string
	Controller *dashboard.Controller

	mu         sync.Mutex
	user       string
	oauthState string
	lastSeen   time.Time
}

// User returns the signed-in login name, empty when signed out
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser records the signed-in login name; empty signs out
func (s *Session) SetUser(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = login
}

// NewOAuthState issues a fresh state value for a sign-in redirect
func (s *Session) NewOAuthState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauthState = uuid.NewString()
	return s.oauthState
}

// ConsumeOAuthState reports whether state matches the pending sign-in and
// clears it either way
func (s *Session) ConsumeOAuthState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.oauthState != "" && s.oauthState == state
	s.oauthState = ""
	return ok
}

// SessionStore holds sessions in memory, keyed by a random id. Sessions idle
// for longer than ttl are pruned.
type SessionStore struct {
	newController func() *dashboard.Controller
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(newController func() *dashboard.Controller, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{
		newController: newController,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[string]*Session),
	}
}

// Get returns the session for id, creating a new one when id is unknown or
// expired. The second return value reports whether a session was created.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.mu.Lock()
		fresh := now.Sub(sess.lastSeen) < s.ttl
		if fresh {
			sess.lastSeen = now
		}
		sess.mu.Unlock()
		if fresh {
			return sess, false
		}
		delete(s.sessions, id)
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.newController(),
		lastSeen:   now,
	}
	s.sessions[sess.ID] = sess
	metrics.SetActiveSessions(len(s.sessions))

	return sess, true
}

// Prune removes sessions idle longer than the ttl and returns how many
func (s *SessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle >= s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.SetActiveSessions(len(s.sessions))

	return removed
}

// Count returns the number of sessions held
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
