// Package db opens the configured user store. The backend is chosen from
// the DATABASE_URL scheme.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camlink/camera-registry/internal/core/ports"
	"github.com/camlink/camera-registry/internal/infrastructure/db/mongo"
	"github.com/camlink/camera-registry/internal/infrastructure/db/postgres"
	"github.com/camlink/camera-registry/internal/infrastructure/db/sqlite"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
	BackendSQLite   Backend = "sqlite"
)

// Options configures Open.
type Options struct {
	URL           string
	MongoDatabase string
	Log           zerolog.Logger
}

// Store is the opened user store. It must be closed at shutdown.
type Store struct {
	Backend Backend
	Users   ports.UserRepository

	ping  func(context.Context) error
	close func() error
}

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close() error { return s.close() }

// Open connects to the backend named by opts.URL, applies the schema and
// returns the store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	backend, target, err := ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		if err := postgres.Migrate(ctx, target, opts.Log); err != nil {
			return nil, err
		}
		pg, err := postgres.New(ctx, target)
		if err != nil {
			return nil, err
		}
		return &Store{Backend: backend, Users: postgres.NewUserRepository(pg), ping: pg.Ping, close: pg.Close}, nil

	case BackendMongo:
		m, err := mongo.Connect(ctx, mongo.Config{URI: target, Database: opts.MongoDatabase})
		if err != nil {
			return nil, err
		}
		return &Store{Backend: backend, Users: mongo.NewUserRepository(m.DB), ping: m.Ping, close: m.Close}, nil

	default:
		lite, err := sqlite.Open(ctx, target, opts.Log)
		if err != nil {
			return nil, err
		}
		return &Store{Backend: backend, Users: sqlite.NewUserRepository(lite), ping: lite.Ping, close: lite.Close}, nil
	}
}

// ParseURL splits a DATABASE_URL into its backend and the driver-specific
// connection target.
func ParseURL(raw string) (Backend, string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", "", fmt.Errorf("database url is empty")
	}

	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return BackendPostgres, url, nil
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return BackendMongo, url, nil
	case strings.HasPrefix(lower, "sqlite://"):
		path := url[len("sqlite://"):]
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no path", raw)
		}
		return BackendSQLite, path, nil
	case strings.HasPrefix(lower, "file:"):
		return BackendSQLite, url, nil
	case strings.Contains(url, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", raw)
	default:
		return BackendSQLite, url, nil
	}
}
