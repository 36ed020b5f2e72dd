// Command server runs the camera registry HTTP API.
//
//	@title			Camera Registry API
//	@version		1.0
//	@description	Account sessions, camera presence and server discovery for camera streaming clients.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/camlink/camera-registry/internal/api"
	"github.com/camlink/camera-registry/internal/api/handler"
	"github.com/camlink/camera-registry/internal/core/ports"
	"github.com/camlink/camera-registry/internal/core/service"
	"github.com/camlink/camera-registry/internal/infrastructure/config"
	"github.com/camlink/camera-registry/internal/infrastructure/db"
	"github.com/camlink/camera-registry/internal/infrastructure/db/memory"
	"github.com/camlink/camera-registry/internal/infrastructure/db/redis"
	"github.com/camlink/camera-registry/internal/infrastructure/http/handlers"
	"github.com/camlink/camera-registry/internal/infrastructure/password"
	"github.com/camlink/camera-registry/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.New(logger.Options{Service: "camera-registry", Output: os.Stderr})
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "camera-registry",
	})

	store, err := db.Open(ctx, db.Options{URL: cfg.Database.URL, MongoDatabase: cfg.Database.MongoDatabase, Log: log})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close user store")
		}
	}()
	log.Info().Str("backend", string(store.Backend)).Msg("user store ready")

	sessions, rdb, err := openSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}()
	}

	manager := service.NewSessionManager(sessions, cfg.Session.TTL)
	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)

	e := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(store.Users, hasher, manager, log),
		Presence: service.NewPresenceService(store.Users, sessions, log),
		Checkers: map[string]handlers.Checker{
			"database": store,
			"sessions": sessions,
		},
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		CORSOrigins:        cfg.CORSOrigins,
		PresenceServerOnly: cfg.Auth.PresenceServerOnly,
		Log:                log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// openSessions picks Redis when REDIS_ADDR is set and process memory
// otherwise. The returned client is nil for the memory store.
func openSessions(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStore, *goredis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, sessions are kept in memory and lost on restart")
		return memory.NewSessionStore(), nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("session store ready")
	return redis.NewSessionStore(rdb), rdb, nil
}
