package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
)

func activeServer(t *testing.T, f *authFixture, presence *PresenceService, name, ip, port string) *domain.User {
	t.Helper()
	f.register(t, name, name+"@x.com", "pw123", domain.RoleServer)
	res, err := f.svc.Login(context.Background(), name, "pw123")
	if err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
	if _, err := presence.SetCameraState(context.Background(), res.User, ports.CameraStateInput{Active: true, IP: ip, Port: port}); err != nil {
		t.Fatalf("activate %s: %v", name, err)
	}
	return res.User
}

func TestPresenceService_SetCameraState_Activate(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	user := f.register(t, "alice", "alice@x.com", "pw", domain.RoleServer)

	active, err := presence.SetCameraState(context.Background(), user, ports.CameraStateInput{
		Active: true, IP: "10.0.0.5", Port: "8080", PublicURL: "https://cam.example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !active {
		t.Fatalf("expected active=true")
	}

	stored := f.repo.stored(user.ID)
	if !stored.CameraActive || *stored.CameraIP != "10.0.0.5" || *stored.CameraPort != "8080" || *stored.PublicURL != "https://cam.example.com" {
		t.Fatalf("unexpected stored state: %+v", stored)
	}
}

func TestPresenceService_SetCameraState_MissingInfo(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	user := f.register(t, "alice", "alice@x.com", "pw", domain.RoleServer)
	ctx := context.Background()

	for _, in := range []ports.CameraStateInput{
		{Active: true, Port: "8080"},
		{Active: true, IP: "10.0.0.5"},
		{Active: true, IP: "  ", Port: "8080"},
	} {
		saves := f.repo.saves
		if _, err := presence.SetCameraState(ctx, user, in); !errors.Is(err, domain.ErrMissingConnectionInfo) {
			t.Fatalf("%+v: expected ErrMissingConnectionInfo, got %v", in, err)
		}
		if f.repo.saves != saves {
			t.Fatalf("%+v: nothing should be persisted", in)
		}
	}
	if f.repo.stored(user.ID).CameraActive {
		t.Fatalf("prior inactive state must be kept")
	}
}

func TestPresenceService_SetCameraState_DeactivateIgnoresArguments(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	user := f.register(t, "alice", "alice@x.com", "pw", domain.RoleServer)
	ctx := context.Background()

	_, _ = presence.SetCameraState(ctx, user, ports.CameraStateInput{Active: true, IP: "10.0.0.5", Port: "8080", PublicURL: "https://x"})
	active, err := presence.SetCameraState(ctx, user, ports.CameraStateInput{Active: false, IP: "1.2.3.4", Port: "1", PublicURL: "https://y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active {
		t.Fatalf("expected active=false")
	}

	stored := f.repo.stored(user.ID)
	if stored.CameraActive || stored.CameraIP != nil || stored.CameraPort != nil || stored.PublicURL != nil {
		t.Fatalf("expected connection info cleared, got %+v", stored)
	}
}

func TestPresenceService_SetCameraState_ClientRoleAllowed(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	user := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)

	if _, err := presence.SetCameraState(context.Background(), user, ports.CameraStateInput{Active: true, IP: "10.0.0.7", Port: "9000"}); err != nil {
		t.Fatalf("client-role users may declare presence, got %v", err)
	}
}

func TestPresenceService_SetCameraState_SaveFailure(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	user := f.register(t, "alice", "alice@x.com", "pw", domain.RoleServer)
	f.repo.saveErr = errBoom

	if _, err := presence.SetCameraState(context.Background(), user, ports.CameraStateInput{Active: true, IP: "10.0.0.5", Port: "8080"}); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

func TestPresenceService_Status_ServerHasNoDiscovery(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	alice := activeServer(t, f, presence, "alice", "10.0.0.5", "8080")

	view, err := presence.Status(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Discovery != nil {
		t.Fatalf("server callers must not get discovery, got %+v", view.Discovery)
	}
	if view.User.Username != "alice" || !view.User.CameraActive {
		t.Fatalf("unexpected self view: %+v", view.User)
	}
}

func TestPresenceService_Status_NoActiveServer(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	bob := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)

	// A logged-out server with a camera does not qualify.
	carol := f.register(t, "carol", "carol@x.com", "pw", domain.RoleServer)
	_, _ = presence.SetCameraState(context.Background(), carol, ports.CameraStateInput{Active: true, IP: "10.0.0.9", Port: "1"})

	view, err := presence.Status(context.Background(), bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Discovery == nil {
		t.Fatalf("client callers always get a discovery result")
	}
	if view.Discovery.Server != nil {
		t.Fatalf("expected no server, got %+v", view.Discovery.Server)
	}
}

func TestPresenceService_Status_Scenario(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	ctx := context.Background()

	activeServer(t, f, presence, "alice", "10.0.0.5", "8080")
	f.register(t, "bob", "bob@x.com", "pw123", domain.RoleClient)
	res, err := f.svc.Login(ctx, "bob", "pw123")
	if err != nil {
		t.Fatalf("login bob: %v", err)
	}

	view, err := presence.Status(ctx, res.User)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	srv := view.Discovery.Server
	if srv == nil || srv.IP != "10.0.0.5" || srv.Port != "8080" || srv.Username != "alice" || srv.PublicURL != nil {
		t.Fatalf("unexpected discovery: %+v", srv)
	}
}

func TestPresenceService_Status_PrefersMostRecentlyActivated(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	ctx := context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	presence.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	activeServer(t, f, presence, "alice", "10.0.0.5", "8080")
	activeServer(t, f, presence, "carol", "10.0.0.6", "8081")
	bob := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)

	view, err := presence.Status(ctx, bob)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view.Discovery.Server == nil || view.Discovery.Server.Username != "carol" {
		t.Fatalf("expected carol (latest activation), got %+v", view.Discovery.Server)
	}
}

func TestPresenceService_Status_RepositoryFailure(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	bob := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)
	f.repo.findErr = errBoom

	if _, err := presence.Status(context.Background(), bob); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestPresenceService_Status_SkipsServerWithExpiredSession(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	ctx := context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	presence.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	carol := activeServer(t, f, presence, "carol", "10.0.0.6", "8081")
	alice := activeServer(t, f, presence, "alice", "10.0.0.5", "8080")
	bob := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)

	// alice activated last but her session ran out without a logout.
	f.sessions.expire(alice.ID)

	view, err := presence.Status(ctx, bob)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view.Discovery.Server == nil || view.Discovery.Server.Username != "carol" {
		t.Fatalf("expected carol, got %+v", view.Discovery.Server)
	}
	if f.repo.stored(alice.ID).SessionActive {
		t.Fatalf("expired server must be marked logged out")
	}

	f.sessions.expire(carol.ID)
	view, err = presence.Status(ctx, bob)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view.Discovery.Server != nil {
		t.Fatalf("expected no server, got %+v", view.Discovery.Server)
	}
}

func TestPresenceService_Status_SessionStoreFailure(t *testing.T) {
	f := newAuthFixture()
	presence := NewPresenceService(f.repo, f.sessions, zerolog.Nop())
	activeServer(t, f, presence, "alice", "10.0.0.5", "8080")
	bob := f.register(t, "bob", "bob@x.com", "pw", domain.RoleClient)
	f.sessions.lookupErr = errBoom

	if _, err := presence.Status(context.Background(), bob); !errors.Is(err, errBoom) {
		t.Fatalf("expected session store error, got %v", err)
	}
}
