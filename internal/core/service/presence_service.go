package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
)

// PresenceService updates camera presence and answers client discovery.
type PresenceService struct {
	repo     ports.UserRepository
	sessions ports.SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

// maxStaleServers bounds how many servers with expired sessions a single
// discovery lookup demotes before giving up.
const maxStaleServers = 16

func NewPresenceService(repo ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger) *PresenceService {
	return &PresenceService{
		repo:     repo,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetCameraState applies a presence transition to user and persists it.
// Activation requires both IP and port; on failure nothing is written.
// Deactivation always clears the connection info. Role is not checked here.
func (s *PresenceService) SetCameraState(ctx context.Context, user *domain.User, in ports.CameraStateInput) (bool, error) {
	now := s.now()
	if in.Active {
		ip := strings.TrimSpace(in.IP)
		port := strings.TrimSpace(in.Port)
		if err := user.ActivateCamera(ip, port, strings.TrimSpace(in.PublicURL), now); err != nil {
			return user.CameraActive, err
		}
	} else {
		user.DeactivateCamera(now)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return false, fmt.Errorf("set camera state: %w", err)
	}

	ev := s.log.Info().Int64("user_id", user.ID).Bool("active", user.CameraActive)
	if user.CameraActive {
		ev = ev.Str("ip", *user.CameraIP).Str("port", *user.CameraPort)
	}
	ev.Msg("camera state updated")

	return user.CameraActive, nil
}

// Status builds the caller's own view. Client-role callers additionally get
// the discovery result for the currently active camera server.
func (s *PresenceService) Status(ctx context.Context, user *domain.User) (*ports.StatusView, error) {
	view := &ports.StatusView{User: user}
	if user.Role != domain.RoleClient {
		return view, nil
	}

	server, err := s.liveServer(ctx)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		view.Discovery = &ports.DiscoveryResult{}
	case err != nil:
		return nil, fmt.Errorf("discover server: %w", err)
	default:
		view.Discovery = &ports.DiscoveryResult{Server: &ports.ServerInfo{
			Username:  server.Username,
			IP:        *server.CameraIP,
			Port:      *server.CameraPort,
			PublicURL: server.PublicURL,
		}}
	}
	return view, nil
}

// liveServer returns the discovery candidate whose session is still live.
// A candidate whose session expired without a logout is marked logged out
// and the lookup moves on to the next one.
func (s *PresenceService) liveServer(ctx context.Context) (*domain.User, error) {
	for i := 0; i < maxStaleServers; i++ {
		server, err := s.repo.FindActiveServer(ctx)
		if err != nil {
			return nil, err
		}

		live, err := s.sessions.HasSession(ctx, server.ID)
		if err != nil {
			return nil, fmt.Errorf("check server session: %w", err)
		}
		if live {
			return server, nil
		}

		server.SessionActive = false
		server.UpdatedAt = s.now()
		if err := s.repo.Save(ctx, server); err != nil {
			return nil, fmt.Errorf("expire server session: %w", err)
		}
		s.log.Info().Int64("user_id", server.ID).Msg("server session expired, removed from discovery")
	}
	return nil, domain.ErrUserNotFound
}
