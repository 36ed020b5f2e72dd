package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// SessionStore keeps sessions in Redis.
// Key format: session:<token> -> user id, session:user:<id> -> current token.
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Save binds token to userID and swaps the user's index entry. The token it
// replaces, if any, is deleted so only one session per user stays valid.
func (s *SessionStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}

	prev, err := s.client.SetArgs(ctx, userKey(userID), token, redis.SetArgs{TTL: ttl, Get: true}).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("session index: %w", err)
	}

	if prev != "" && prev != token {
		if err := s.client.Del(ctx, tokenKey(prev)).Err(); err != nil {
			return fmt.Errorf("session evict: %w", err)
		}
	}
	return nil
}

// Lookup returns domain.ErrSessionNotFound for unknown or expired tokens.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session lookup: corrupt value %q: %w", raw, err)
	}
	return id, nil
}

// Delete removes the token. The user index entry is left to expire; it is
// only consulted to evict the token it names.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// HasSession follows the user index to its token. The index may outlive a
// deleted token, so the token key itself decides.
func (s *SessionStore) HasSession(ctx context.Context, userID int64) (bool, error) {
	token, err := s.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("session index: %w", err)
	}
	n, err := s.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func tokenKey(token string) string { return "session:" + token }

func userKey(userID int64) string { return "session:user:" + strconv.FormatInt(userID, 10) }
