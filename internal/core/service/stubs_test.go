package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// ---------------------------------------------------------------------------
// User repository stub
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	nextID  int64
	saveErr error
	findErr error
	saves   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID
	r.nextID++
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	r.saves++
	return nil
}

func (r *stubUserRepo) FindActiveServer(_ context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var candidates []*domain.User
	for _, u := range r.users {
		if u.IsDiscoverable() {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrUserNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].CameraActivatedAt, candidates[j].CameraActivatedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.After(*b)
		}
		return candidates[i].ID < candidates[j].ID
	})
	return cloneUser(candidates[0]), nil
}

// stored returns the persisted copy of a user, bypassing findErr.
func (r *stubUserRepo) stored(id int64) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id])
}

// ---------------------------------------------------------------------------
// Session store stub
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu        sync.Mutex
	byToken   map[string]int64
	byUser    map[int64]string
	saveErr   error
	lookupErr error
	deleteErr error
	lastTTL   time.Duration
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{byToken: make(map[string]int64), byUser: make(map[int64]string)}
}

func (s *stubSessionStore) Save(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if old, ok := s.byUser[userID]; ok {
		delete(s.byToken, old)
	}
	s.byToken[token] = userID
	s.byUser[userID] = token
	s.lastTTL = ttl
	return nil
}

func (s *stubSessionStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return 0, s.lookupErr
	}
	id, ok := s.byToken[token]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return id, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.byToken, token)
	return nil
}

func (s *stubSessionStore) HasSession(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	tok, ok := s.byUser[userID]
	if !ok {
		return false, nil
	}
	_, live := s.byToken[tok]
	return live, nil
}

// expire drops a user's session as if its TTL had run out.
func (s *stubSessionStore) expire(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, s.byUser[userID])
	delete(s.byUser, userID)
}

func (s *stubSessionStore) Ping(context.Context) error { return nil }

func (s *stubSessionStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

// ---------------------------------------------------------------------------
// Password hasher stub
// ---------------------------------------------------------------------------

type stubHasher struct {
	verifies int
	hashErr  error
}

func (h *stubHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h *stubHasher) Verify(plain, hash string) bool {
	h.verifies++
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

var errBoom = errors.New("boom")
