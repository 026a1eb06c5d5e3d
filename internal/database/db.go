package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"attendance_backend/internal/config"
)

// ErrNotReady is returned when an operation is attempted before the store
// has been opened. Handlers translate it into HTTP 503.
var ErrNotReady = errors.New("store not ready")

// Store wraps the shared *sql.DB handle with an explicit readiness state so
// a request racing startup surfaces "unavailable" instead of a nil
// dereference. Repositories receive a *Store by injection; there is no
// package-level handle.
type Store struct {
	db *sql.DB
}

// NewStore returns a ready Store around an opened handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB returns the underlying handle, or ErrNotReady when the store has not
// been opened.
func (s *Store) DB() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotReady
	}
	return s.db, nil
}

// Open connects to the configured engine and verifies the connection. The
// default is an embedded sqlite file; DB_DRIVER=mysql selects the server
// engine instead. Both are reached through database/sql so the rest of the
// code is engine-agnostic.
func Open(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		auth := cfg.DBUser
		if cfg.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sql.Open("mysql", dsn)
	default:
		// WAL lets reads proceed while a check-in commits; busy_timeout makes
		// concurrent writers queue instead of failing. Foreign keys must be
		// switched on per connection for the delete cascades.
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
			cfg.SQLitePath)
		db, err = sql.Open("sqlite", dsn)
	}
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
