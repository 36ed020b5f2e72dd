// Package sqlite implements the user store on an embedded SQLite file using
// the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps a SQLite connection pool.
type DB struct {
	*sql.DB
}

// Open creates or opens the database at path and applies migrations.
func Open(ctx context.Context, path string, log zerolog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	} else if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		// Some filesystems (bind mounts, network shares) refuse WAL.
		log.Warn().Err(err).Str("path", path).Msg("sqlite: WAL unavailable, using default journal")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	db := &DB{DB: sqlDB}
	if err := db.migrate(ctx, log); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func (db *DB) migrate(ctx context.Context, log zerolog.Logger) error {
	goose.SetLogger(migrations.Logger(log))
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db.DB, migrations.SQLiteDir)
}

func (db *DB) Ping(ctx context.Context) error { return db.PingContext(ctx) }

// uniqueViolation maps a UNIQUE constraint failure to the matching taken
// error. It returns nil when err is not a unique violation.
func uniqueViolation(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return nil
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, "users.email"):
		return domain.ErrEmailTaken
	default:
		return domain.ErrConflict
	}
}
