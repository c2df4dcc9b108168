// Package session keeps one lifecycle controller per browser session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sentiview/internal/lifecycle"
)

// Factory builds a fresh controller for a new session.
type Factory func() *lifecycle.Controller

type entry struct {
	ctrl     *lifecycle.Controller
	lastUsed time.Time
}

// Store maps session ids to controllers. Sessions expire after ttl of
// inactivity; when more than limit sessions exist the least recently used one
// is evicted.
type Store struct {
	factory Factory
	limit   int
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore returns a Store. limit <= 0 means unbounded, ttl <= 0 means no
// expiry.
func NewStore(f Factory, limit int, ttl time.Duration) *Store {
	return &Store{
		factory:  f,
		limit:    limit,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the controller for id and marks it used.
func (s *Store) Get(id string) (*lifecycle.Controller, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastUsed = now
	return e.ctrl, true
}

// Create registers a new session and returns its id.
func (s *Store) Create() (string, *lifecycle.Controller) {
	id := uuid.NewString()
	ctrl := s.factory()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[id] = &entry{ctrl: ctrl, lastUsed: now}
	for s.limit > 0 && len(s.sessions) > s.limit {
		s.evictOldestLocked(id)
	}
	return id, ctrl
}

// GetOrCreate returns the controller for id, creating a session when id is
// unknown or expired. created reports whether a new id was issued.
func (s *Store) GetOrCreate(id string) (string, *lifecycle.Controller, bool) {
	if c, ok := s.Get(id); ok {
		return id, c, false
	}
	nid, c := s.Create()
	return nid, c, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastUsed) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) evictOldestLocked(keep string) {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if id == keep {
			continue
		}
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.sessions, oldestID)
}
