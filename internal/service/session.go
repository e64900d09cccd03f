package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"lg/calorie-tracker-go/internal/apperror"
)

// Session identifies a logged-in user. It is passed explicitly to every
// user-scoped operation; the ID doubles as the HTTP bearer token.
type Session struct {
	ID        uuid.UUID `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

// DefaultSessionTTL is how long a session lives after login.
const DefaultSessionTTL = 24 * time.Hour

type sessionEntry struct {
	sess    *Session
	expires time.Time
}

// Sessions is the registry of live sessions for the HTTP server. Safe for
// concurrent use. Sessions expire ttl after they are added; a zero ttl keeps
// them until logout.
type Sessions struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]sessionEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{byID: make(map[uuid.UUID]sessionEntry), ttl: ttl, now: time.Now}
}

func (s *Sessions) expired(e sessionEntry, now time.Time) bool {
	return s.ttl > 0 && !now.Before(e.expires)
}

// Add registers sess and drops any sessions that have expired.
func (s *Sessions) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.byID {
		if s.expired(e, now) {
			delete(s.byID, id)
		}
	}
	s.byID[sess.ID] = sessionEntry{sess: sess, expires: now.Add(s.ttl)}
}

// Get looks up a session by its token string. An expired session is removed.
func (s *Sessions) Get(token string) (*Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid session token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, apperror.Unauthorized("session not found or ended")
	}
	if s.expired(e, s.now()) {
		delete(s.byID, id)
		return nil, apperror.Unauthorized("session expired, please login again")
	}
	return e.sess, nil
}

// Remove ends a session. Removing an unknown session is a no-op.
func (s *Sessions) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
