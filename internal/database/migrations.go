package database

import (
	"context"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order. Versions are never reused.
var migrations = []migration{
	{1, "observances", migrationV1Observances},
	{2, "observance date index", migrationV2ObservanceIndexes},
}

func latestVersion() int {
	return migrations[len(migrations)-1].version
}

const createSchemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Migrate brings the observance store up to the latest schema in a single
// transaction and returns how many migrations it applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, createSchemaMigrations); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		var current int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		for _, m := range migrations {
			if m.version <= current {
				continue
			}
			db.logger.Info("applying migration",
				slog.Int("version", m.version),
				slog.String("name", m.name))

			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Info("observance store migrated",
		slog.Int("applied", applied),
		slog.Int("version", latestVersion()))
	return applied, nil
}

// SchemaVersion returns the highest applied migration, or 0 for a store that
// has never been migrated.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'
		)`).Scan(&exists); err != nil {
		return 0, fmt.Errorf("query schema: %w", err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// migrationV1Observances creates the observances table.
//
// An observance is a recurring personal date pinned to either calendar:
//
//   - calendar='lunar': month/day are lunar, leap=1 pins it to a leap month
//     (memorial days "giỗ" are kept this way)
//   - calendar='solar': month/day are Gregorian, leap is always 0
//
// The year is never stored; occurrences are computed at runtime.
const migrationV1Observances = `
-- Migration 001: observances

CREATE TABLE IF NOT EXISTS observances (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    name TEXT NOT NULL,

    calendar TEXT NOT NULL CHECK (calendar IN ('lunar', 'solar')),

    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),

    -- Only meaningful for lunar observances
    leap INTEGER NOT NULL DEFAULT 0 CHECK (leap IN (0, 1)),

    note TEXT,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (name, calendar, month, day, leap)
);
`

// migrationV2ObservanceIndexes adds the index used by date lookups.
const migrationV2ObservanceIndexes = `
-- Migration 002: lookup index

CREATE INDEX IF NOT EXISTS idx_observances_date
    ON observances(calendar, month, day);
`
