package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olehluchkiv/gosummary/internal/llm"
	"github.com/olehluchkiv/gosummary/internal/summary"
	"github.com/olehluchkiv/gosummary/internal/tts"
)

// DefaultSessionTTL is how long an idle session survives.
const DefaultSessionTTL = 24 * time.Hour

// Session is everything one browser has done so far.
type Session struct {
	ID            string
	Username      string
	Authenticated bool
	Dark          bool

	Language string
	Length   string
	Summary  *summary.Summary
	Messages []llm.Message
	Audio    *tts.Audio
	PDF      []byte

	lastSeen time.Time
}

// Sessions is an in-memory session table keyed by random tokens.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]*Session
	ttl time.Duration
	now func() time.Time
}

// NewSessions creates an empty table. ttl <= 0 uses DefaultSessionTTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{m: make(map[string]*Session), ttl: ttl, now: time.Now}
}

// Create starts a fresh anonymous session.
func (s *Sessions) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.newSession()
	s.m[sess.ID] = sess
	return *sess
}

// Rotate replaces the session with a fresh ID that keeps only the theme
// preference, then applies fn to it. The old ID stops resolving. Callers
// rotate on privilege changes such as login.
func (s *Sessions) Rotate(id string, fn func(*Session)) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.lookup(id)
	if !ok {
		return Session{}, false
	}
	sess := s.newSession()
	sess.Dark = old.Dark
	newID := sess.ID
	if fn != nil {
		fn(sess)
		sess.ID = newID
	}
	delete(s.m, id)
	s.m[newID] = sess
	return *sess, true
}

func (s *Sessions) newSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Language: summary.DefaultLanguage,
		Length:   summary.DefaultLength,
		lastSeen: s.now(),
	}
}

// Get returns a copy of the session, if it exists and has not expired.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Update applies fn to the session under the table lock.
func (s *Sessions) Update(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return false
	}
	fn(sess)
	sess.ID = id
	return true
}

// Logout clears everything except the theme preference.
func (s *Sessions) Logout(id string) bool {
	return s.Update(id, func(sess *Session) {
		*sess = Session{
			Dark:     sess.Dark,
			Language: summary.DefaultLanguage,
			Length:   summary.DefaultLength,
			lastSeen: sess.lastSeen,
		}
	})
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.m {
		if s.expired(sess) {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Sessions) lookup(id string) (*Session, bool) {
	sess, ok := s.m[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.m, id)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

func (s *Sessions) expired(sess *Session) bool {
	return s.now().Sub(sess.lastSeen) > s.ttl
}
