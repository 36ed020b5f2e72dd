package domain

import "time"

// Role is the fixed category a user registers with.
type Role string

const (
	RoleClient Role = "client"
	RoleServer Role = "server"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleServer
}

// ParseRole maps a registration tipo to a Role. "cliente" is accepted as an
// alias of client for older apps.
func ParseRole(s string) (Role, bool) {
	if s == "cliente" {
		return RoleClient, true
	}
	r := Role(s)
	return r, r.Valid()
}

// User models an account together with its camera presence.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	SessionActive bool      `json:"session_active"`
	CameraActive  bool      `json:"camera_active"`
	CameraIP      *string   `json:"camera_ip"`
	CameraPort    *string   `json:"camera_port"`
	PublicURL     *string   `json:"public_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// CameraActivatedAt is stamped on every activation and cleared on
	// deactivation. Discovery prefers the most recent one.
	CameraActivatedAt *time.Time `json:"camera_activated_at,omitempty"`
}

// ActivateCamera moves the user into the Active presence state, overwriting
// any previous connection info. ip and port are both required.
func (u *User) ActivateCamera(ip, port, publicURL string, now time.Time) error {
	if ip == "" || port == "" {
		return ErrMissingConnectionInfo
	}

	u.CameraActive = true
	u.CameraIP = &ip
	u.CameraPort = &port
	u.PublicURL = nil
	if publicURL != "" {
		u.PublicURL = &publicURL
	}
	u.CameraActivatedAt = &now
	u.UpdatedAt = now
	return nil
}

// DeactivateCamera moves the user into the Inactive presence state. All
// connection info is dropped so a stale address is never discoverable.
func (u *User) DeactivateCamera(now time.Time) {
	u.CameraActive = false
	u.CameraIP = nil
	u.CameraPort = nil
	u.PublicURL = nil
	u.CameraActivatedAt = nil
	u.UpdatedAt = now
}

// IsDiscoverable reports whether the user qualifies as an active camera
// server for client discovery.
func (u *User) IsDiscoverable() bool {
	return u.Role == RoleServer &&
		u.SessionActive &&
		u.CameraActive &&
		u.CameraIP != nil &&
		u.CameraPort != nil
}
