package services

import (
	"sync"
	"time"

	"github.com/thomas-vilte/issuecost/internal/models"
)

// ProgressStore keeps live and recently finished sessions in memory. Writers
// go through Update so progress can never move backwards; readers only ever
// receive copies.
type ProgressStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		sessions: make(map[string]*models.Session),
	}
}

// Put registers a new session, replacing any previous one with the same id.
func (s *ProgressStore) Put(session models.Session) {
	session.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &session
}

// Snapshot returns a copy of the session safe to hand to pollers.
func (s *ProgressStore) Snapshot(id string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	return session.Clone(), true
}

// Update applies fn to the session under the write lock. Progress is clamped
// so concurrent or out-of-order writes cannot make it move backwards.
func (s *ProgressStore) Update(id string, fn func(*models.Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false
	}

	before := session.Progress
	fn(session)
	if session.Progress < before && session.Status != models.StatusError {
		session.Progress = before
	}
	session.UpdatedAt = time.Now()
	return true
}

// DeleteExpired removes terminal sessions idle for longer than ttl and
// returns how many were evicted. Running sessions are never evicted.
func (s *ProgressStore) DeleteExpired(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.Status.Terminal() && session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *ProgressStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
