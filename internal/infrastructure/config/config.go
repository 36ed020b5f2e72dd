package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS,     default=*"`

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Auth     AuthConfig
}

type DatabaseConfig struct {
	URL           string `env:"DATABASE_URL, default=sqlite://users.db"`
	MongoDatabase string `env:"MONGO_DB,     default=camera_registry"`
}

// RedisConfig selects the session store. An empty Addr keeps sessions in
// process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SessionConfig struct {
	TTL          time.Duration `env:"SESSION_TTL,    default=336h"`
	CookieName   string        `env:"SESSION_COOKIE, default=session"`
	CookieSecure bool          `env:"COOKIE_SECURE,  default=false"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
	// PresenceServerOnly restricts /estado-camara to server-role users.
	PresenceServerOnly bool `env:"PRESENCE_SERVER_ONLY, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults
// (pretty logs).
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("load config: DATABASE_URL must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("load config: SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return fmt.Errorf("load config: SESSION_COOKIE must not be empty")
	}
	return nil
}
