package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no observance has the requested ID.
	ErrNotFound = errors.New("observance not found")

	// ErrDuplicate is returned when the same observance is already stored.
	ErrDuplicate = errors.New("duplicate observance")

	// ErrInvalid is returned when an observance fails validation.
	ErrInvalid = errors.New("invalid observance")

	// ErrNotMigrated is returned by Health before Migrate has brought the
	// schema up to date.
	ErrNotMigrated = errors.New("observance store is not migrated")
)

// IsNotFound reports whether err means the observance does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
