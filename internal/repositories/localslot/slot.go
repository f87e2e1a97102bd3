// Package localslot emulates on-device key/value storage with sqlite.
//
// A slot is a namespaced key holding one opaque value, read and written
// wholesale. The local character store keeps its whole JSON array in a
// single key.
package localslot

//go:generate mockgen -destination=mock/mock_slot.go -package=localslotmock github.com/KirkDiggler/rpg-sheet/internal/repositories/localslot Slot

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/localslot/migrations"
)

// Slot reads and writes whole values by key
type Slot interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value. Returns errors.ResourceExhausted when the
	// value exceeds the configured quota; the prior value is kept.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error
}

// Config contains configuration for the sqlite slot
type Config struct {
	// Path is the database file; created when missing
	Path string
	// MaxBytes caps a single value, 0 means unlimited
	MaxBytes int
	Clock    clock.Clock
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if strings.TrimSpace(cfg.Path) == "" {
		vb.RequiredField("path")
	}
	if cfg.MaxBytes < 0 {
		vb.Field("max_bytes", "must not be negative")
	}
	return vb.Build()
}

// SQLite is a Slot backed by a single sqlite table
type SQLite struct {
	db       *sql.DB
	maxBytes int
	clock    clock.Clock
}

var _ Slot = (*SQLite)(nil)

// Open opens the database at cfg.Path and applies embedded migrations
func Open(ctx context.Context, cfg *Config) (*SQLite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local storage")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open local storage")
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate local storage")
	}

	slog.DebugContext(ctx, "opened local storage",
		"path", cfg.Path,
		"max_bytes", cfg.MaxBytes)

	return &SQLite{
		db:       db,
		maxBytes: cfg.MaxBytes,
		clock:    c,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Close closes the database handle
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value stored under key
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.InvalidArgument("key cannot be empty")
	}

	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read local storage key %s", key)
	}

	return value, true, nil
}

// Set replaces the value stored under key
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}
	if s.maxBytes > 0 && len(value) > s.maxBytes {
		return errors.ResourceExhaustedf("value of %d bytes exceeds local storage quota of %d bytes",
			len(value), s.maxBytes)
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, clock.Millis(s.clock))
	if err != nil {
		return errors.Wrapf(err, "failed to write local storage key %s", key)
	}

	return nil
}

// Remove deletes key
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "failed to remove local storage key %s", key)
	}

	return nil
}
