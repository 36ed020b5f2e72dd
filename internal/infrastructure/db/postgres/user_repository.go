package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/camlink/camera-registry/internal/core/domain"
)

const queryTimeout = 5 * time.Second

const userColumns = `id, username, email, password_hash, role, session_active, camera_active,
	camera_ip, camera_port, public_url, camera_activated_at, created_at, updated_at`

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct{ db *DB }

func NewUserRepository(db *DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `
INSERT INTO users (username, email, password_hash, role, session_active, camera_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.SessionActive, user.CameraActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindActiveServer returns the discoverable server with the latest activation.
func (r *UserRepository) FindActiveServer(ctx context.Context) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users
WHERE role = 'server' AND session_active AND camera_active
  AND camera_ip IS NOT NULL AND camera_port IS NOT NULL
ORDER BY camera_activated_at DESC NULLS LAST, id ASC
LIMIT 1`)
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `
UPDATE users
SET session_active = $2, camera_active = $3, camera_ip = $4, camera_port = $5,
    public_url = $6, camera_activated_at = $7, updated_at = $8
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		user.ID, user.SessionActive, user.CameraActive, user.CameraIP, user.CameraPort,
		user.PublicURL, user.CameraActivatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, q string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		u    domain.User
		role string
	)
	err := r.db.Pool.QueryRow(ctx, q, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.SessionActive, &u.CameraActive,
		&u.CameraIP, &u.CameraPort, &u.PublicURL, &u.CameraActivatedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
