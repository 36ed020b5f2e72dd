package ports

import (
	"context"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// CameraStateInput is the DTO passed from the transport layer to
// PresenceService.SetCameraState. IP, Port and PublicURL are ignored when
// Active is false.
type CameraStateInput struct {
	Active    bool
	IP        string
	Port      string
	PublicURL string
}

// ServerInfo is the connection info of a discovered camera server.
type ServerInfo struct {
	Username  string
	IP        string
	Port      string
	PublicURL *string
}

// DiscoveryResult holds the outcome of the discovery query. Server is nil
// when no camera server is currently active.
type DiscoveryResult struct {
	Server *ServerInfo
}

// StatusView is the caller's own state plus, for client-role callers, the
// discovery result. Discovery is nil for server-role callers.
type StatusView struct {
	User      *domain.User
	Discovery *DiscoveryResult
}

// PresenceService manages camera presence and client discovery.
type PresenceService interface {
	SetCameraState(ctx context.Context, user *domain.User, in CameraStateInput) (bool, error)
	Status(ctx context.Context, user *domain.User) (*StatusView, error)
}
