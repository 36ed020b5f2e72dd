package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
)

// AuthService implements registration, login, logout and session
// authentication.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	sessions *SessionManager
	log      zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, sessions *SessionManager, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new account. Username uniqueness is checked before
// email uniqueness so a request colliding on both reports the username.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	if err := s.ensureFree(ctx, s.repo.FindByUsername, username, domain.ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.repo.FindByEmail, email, domain.ErrEmailTaken); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

func (s *AuthService) ensureFree(ctx context.Context, find func(context.Context, string) (*domain.User, error), value string, taken error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("register: %w", err)
	}
}

// Login verifies credentials, starts a session and marks the user as logged
// in. Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparison so unknown users cost the same as bad passwords.
			s.hasher.Verify(password, s.dummy())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// The user row is written before the session is started: starting a
	// session evicts the previous token, so it must be the last step.
	wasActive := user.SessionActive
	user.SessionActive = true
	user.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		if !wasActive {
			user.SessionActive = false
			if saveErr := s.repo.Save(ctx, user); saveErr != nil {
				s.log.Warn().Err(saveErr).Int64("user_id", user.ID).Msg("failed to restore session state")
			}
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return &ports.LoginResult{Token: token, User: user}, nil
}

// Logout marks the session owner as logged out and destroys the session.
// An empty, unknown or already-ended token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("logout: resolve session")
	}
	if ok {
		s.markLoggedOut(ctx, userID)
	}

	if err := s.sessions.End(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) markLoggedOut(ctx context.Context, userID int64) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("logout: load user")
		}
		return
	}

	user.SessionActive = false
	user.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, user); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("logout: persist session state")
		return
	}
	s.log.Info().Int64("user_id", userID).Str("username", user.Username).Msg("user logged out")
}

// Authenticate resolves a session token to its user. A missing session or a
// user that no longer exists yields ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("camera-registry/no-such-user")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
