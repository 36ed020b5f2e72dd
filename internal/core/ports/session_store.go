package ports

import (
	"context"
	"time"
)

// SessionStore keeps the server-side mapping from opaque session tokens to
// user IDs. A user has at most one live token: saving a new one for the same
// user invalidates the previous token.
type SessionStore interface {
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	// Lookup returns domain.ErrSessionNotFound for unknown or expired tokens.
	Lookup(ctx context.Context, token string) (int64, error)
	// Delete removes the token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// HasSession reports whether userID currently holds a live token.
	HasSession(ctx context.Context, userID int64) (bool, error)
	Ping(ctx context.Context) error
}
