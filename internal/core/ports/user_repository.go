package ports

import (
	"context"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// UserRepository defines the persistence operations for user records.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned ID.
	// A duplicate username or email yields an error matching domain.ErrConflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Save persists the mutable session and camera fields of an existing user.
	Save(ctx context.Context, user *domain.User) error
	// FindActiveServer returns one discoverable server-role user, preferring
	// the most recently activated camera. domain.ErrUserNotFound when none.
	FindActiveServer(ctx context.Context) (*domain.User, error)
}
