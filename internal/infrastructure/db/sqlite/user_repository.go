package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camlink/camera-registry/internal/core/domain"
)

const userColumns = `id, username, email, password_hash, role, session_active, camera_active,
	camera_ip, camera_port, public_url, camera_activated_at, created_at, updated_at`

// UserRepository implements ports.UserRepository on SQLite.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, email, password_hash, role, session_active, camera_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.SessionActive, user.CameraActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: last id: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) FindActiveServer(ctx context.Context) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users
WHERE role = 'server' AND session_active = 1 AND camera_active = 1
  AND camera_ip IS NOT NULL AND camera_port IS NOT NULL
ORDER BY camera_activated_at IS NULL, camera_activated_at DESC, id ASC
LIMIT 1`)
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	const q = `
UPDATE users
SET session_active = ?, camera_active = ?, camera_ip = ?, camera_port = ?,
    public_url = ?, camera_activated_at = ?, updated_at = ?
WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		user.SessionActive, user.CameraActive, user.CameraIP, user.CameraPort,
		user.PublicURL, user.CameraActivatedAt, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, q string, args ...any) (*domain.User, error) {
	var (
		u           domain.User
		role        string
		ip, port    sql.NullString
		publicURL   sql.NullString
		activatedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.SessionActive, &u.CameraActive,
		&ip, &port, &publicURL, &activatedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	u.Role = domain.Role(role)
	u.CameraIP = nullString(ip)
	u.CameraPort = nullString(port)
	u.PublicURL = nullString(publicURL)
	if activatedAt.Valid {
		t := activatedAt.Time
		u.CameraActivatedAt = &t
	}
	return &u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
