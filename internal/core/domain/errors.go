package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConflict      = errors.New("user already exists")
	ErrUsernameTaken = fmt.Errorf("username already registered: %w", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInvalidRole   = errors.New("role must be client or server")
	ErrInvalidInput  = errors.New("username, email and password are required")

	// ErrPasswordTooLong is bcrypt's input limit, counted in bytes.
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	ErrUserNotFound    = errors.New("user not found")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrSessionNotFound    = errors.New("session not found")

	ErrMissingConnectionInfo = errors.New("ip and port are required when the camera is active")
)
