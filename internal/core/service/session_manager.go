package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
)

const defaultSessionTTL = 14 * 24 * time.Hour

// SessionManager issues opaque session tokens and resolves them back to user
// IDs through a server-side store. Tokens carry no user data.
type SessionManager struct {
	store    ports.SessionStore
	ttl      time.Duration
	newToken func() string
}

func NewSessionManager(store ports.SessionStore, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{store: store, ttl: ttl, newToken: uuid.NewString}
}

// TTL is the lifetime of a freshly started session.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Start binds a new token to userID, replacing any previous token of that user.
func (m *SessionManager) Start(ctx context.Context, userID int64) (string, error) {
	token := m.newToken()
	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return token, nil
}

// Resolve maps token to a user ID. ok is false for an empty, unknown or
// expired token.
func (m *SessionManager) Resolve(ctx context.Context, token string) (userID int64, ok bool, err error) {
	if token == "" {
		return 0, false, nil
	}
	userID, err = m.store.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("resolve session: %w", err)
	}
	return userID, true, nil
}

// End destroys the session. Ending an unknown token is a no-op.
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}
