// Package sqlite implements the SQLite storage backend for todo items.
// The store is a single file under the configured data directory; every
// mutation is one statement committed in its own transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on top of a SQLite file.
type Backend struct {
	mu     sync.RWMutex
	db     *sql.DB
	config types.Config
	path   string

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Backend at Open time.
type Option func(*Backend)

// WithClock replaces the clock used to stamp created_at. Tests use it to
// pin the insertion date.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the structured logger for statement tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Open validates config, creates DataDir if needed, opens the store file,
// and ensures the todo table exists. Failures wrap ErrStoreUnavailable.
// The caller must Close the returned Backend.
func Open(config types.Config, opts ...Option) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{
		config: config,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, unavailable("creating data directory", err)
	}
	b.path = filepath.Join(dataDir, config.DBFileName())

	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, unavailable("opening database", err)
	}

	// One connection: the store serves a single session and SQLite allows
	// a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("connecting to database", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, unavailable("applying pragmas", err)
	}
	b.db = db

	if err := b.EnsureInitialized(context.Background()); err != nil {
		db.Close()
		b.db = nil
		return nil, err
	}

	b.logger.Debug("store opened", "path", b.path)
	return b, nil
}

// Path returns the location of the store file.
func (b *Backend) Path() string {
	return b.path
}

// EnsureInitialized creates the todo table if it is missing. Repeated calls,
// in this process or across restarts, leave existing data untouched.
func (b *Backend) EnsureInitialized(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}
	for _, ddl := range schemaDDL {
		if _, err := b.db.ExecContext(ctx, ddl); err != nil {
			return unavailable("creating schema", err)
		}
	}
	return nil
}

// Close releases the database handle. Close is idempotent; afterwards every
// operation returns ErrStoreClosed.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.logger.Debug("store closed", "path", b.path)
	return nil
}

// today returns the current calendar date from the configured clock.
func (b *Backend) today() time.Time {
	return types.Date(b.now())
}

// applyPragmas sets the connection-level SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	return nil
}

// unavailable wraps a driver error so callers can match ErrStoreUnavailable
// while keeping the underlying cause.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, types.ErrStoreUnavailable, err)
}
