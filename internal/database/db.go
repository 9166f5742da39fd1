// Package database stores observances (memorial days, anniversaries,
// birthdays) in a single SQLite file.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the observance store used by the server and the importer.
const DefaultPath = "data/amlich.db"

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// DB is the observance store.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config describes how to open the observance store.
type Config struct {
	Path            string        // SQLite file, or MemoryPath
	BusyTimeout     time.Duration // how long a writer waits for a locked file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the settings for amlich.db at path, or DefaultPath
// when path is empty.
//
// The pool holds a single connection. SQLite has one writer at a time, and
// every connection to MemoryPath would otherwise see its own empty database.
func DefaultConfig(path string) Config {
	if path == "" {
		path = DefaultPath
	}
	return Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}

// dsn adds the driver pragmas to the path. WAL lets the API read while the
// importer writes.
func (c Config) dsn() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	if c.Path != MemoryPath {
		q.Set("_journal_mode", "WAL")
	}
	return c.Path + "?" + q.Encode()
}

// Open opens the observance store, creating its directory if needed. It does
// not migrate; call Migrate before serving queries.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open observance store: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping observance store: %w", err)
	}

	logger.Info("observance store opened", slog.String("path", cfg.Path))

	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Close closes the store.
func (db *DB) Close() error {
	db.logger.Info("closing observance store", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports whether the store answers queries and is fully migrated.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if latest := latestVersion(); version < latest {
		return fmt.Errorf("%w: schema version %d of %d", ErrNotMigrated, version, latest)
	}
	return nil
}

// Tx is a transaction on the observance store.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing if it returns nil and rolling
// back otherwise. fn's error is returned as is, joined with any rollback
// failure.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
