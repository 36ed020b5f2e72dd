// Package memory provides an in-process session store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/camlink/camera-registry/internal/core/domain"
)

type entry struct {
	userID  int64
	expires time.Time
}

// SessionStore is a mutex-guarded map with lazy expiry.
type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]entry
	byUser  map[int64]string
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byToken: make(map[string]entry),
		byUser:  make(map[int64]string),
		now:     time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[userID]; ok && prev != token {
		delete(s.byToken, prev)
	}
	s.byToken[token] = entry{userID: userID, expires: s.now().Add(ttl)}
	s.byUser[userID] = token
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	e, ok := s.byToken[token]
	s.mu.RUnlock()

	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if !s.now().Before(e.expires) {
		s.mu.Lock()
		s.remove(token)
		s.mu.Unlock()
		return 0, domain.ErrSessionNotFound
	}
	return e.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	s.remove(token)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) HasSession(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.byUser[userID]
	if !ok {
		return false, nil
	}
	e, ok := s.byToken[token]
	return ok && s.now().Before(e.expires), nil
}

func (s *SessionStore) Ping(context.Context) error { return nil }

// Len reports the number of stored tokens, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byToken)
}

// remove must be called with mu held.
func (s *SessionStore) remove(token string) {
	e, ok := s.byToken[token]
	if !ok {
		return
	}
	delete(s.byToken, token)
	if s.byUser[e.userID] == token {
		delete(s.byUser, e.userID)
	}
}
