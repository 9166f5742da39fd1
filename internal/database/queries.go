package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Helper Functions
// =============================================================================

// execer is satisfied by both *DB and *Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

const observanceColumns = `id, name, calendar, month, day, leap, note, created_at, updated_at`

// scanObservance reads one observance row.
func scanObservance(row rowScanner) (*Observance, error) {
	var o Observance
	var calendar string
	var leap int
	var note, createdAtStr, updatedAtStr sql.NullString

	if err := row.Scan(
		&o.ID,
		&o.Name,
		&calendar,
		&o.Month,
		&o.Day,
		&leap,
		&note,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	o.Calendar = CalendarType(calendar)
	o.Leap = leap != 0
	if note.Valid {
		o.Note = &note.String
	}
	if t := parseTimestamp(createdAtStr); t != nil {
		o.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAtStr); t != nil {
		o.UpdatedAt = *t
	}

	return &o, nil
}

// =============================================================================
// Observance Queries
// =============================================================================

// CreateObservance validates and inserts an observance, setting its ID.
// Returns ErrDuplicate if the same observance already exists.
func (db *DB) CreateObservance(ctx context.Context, o *Observance) error {
	return createObservance(ctx, db, o)
}

// CreateObservance inserts an observance inside a transaction.
func (tx *Tx) CreateObservance(ctx context.Context, o *Observance) error {
	return createObservance(ctx, tx, o)
}

func createObservance(ctx context.Context, ex execer, o *Observance) error {
	if err := o.Validate(); err != nil {
		return err
	}

	leap := 0
	if o.Leap {
		leap = 1
	}

	now := time.Now().UTC().Truncate(time.Second)
	stamp := now.Format("2006-01-02 15:04:05")

	result, err := ex.ExecContext(ctx, `
		INSERT INTO observances (name, calendar, month, day, leap, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.Name,
		string(o.Calendar),
		o.Month,
		o.Day,
		leap,
		o.Note,
		stamp,
		stamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert observance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get observance id: %w", err)
	}

	o.ID = id
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

// GetObservanceByID retrieves one observance.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) GetObservanceByID(ctx context.Context, id int64) (*Observance, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+observanceColumns+` FROM observances WHERE id = ?`, id)

	o, err := scanObservance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query observance: %w", err)
	}
	return o, nil
}

// ListObservances returns observances ordered by calendar position.
func (db *DB) ListObservances(ctx context.Context, limit, offset int) ([]Observance, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+observanceColumns+`
		FROM observances
		ORDER BY calendar, month, day, leap, name
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query observances: %w", err)
	}
	defer rows.Close()

	return collectObservances(rows)
}

// GetObservancesForDate returns the observances that fall on the day
// described by q.
func (db *DB) GetObservancesForDate(ctx context.Context, q DateQuery) ([]Observance, error) {
	leap := 0
	if q.LunarLeap {
		leap = 1
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+observanceColumns+`
		FROM observances
		WHERE (calendar = 'solar' AND month = ? AND day BETWEEN ? AND ?)
		   OR (calendar = 'lunar' AND month = ? AND day BETWEEN ? AND ? AND leap = ?)
		ORDER BY calendar, name
	`,
		q.SolarMonth, q.SolarDayFrom, q.SolarDayTo,
		q.LunarMonth, q.LunarDayFrom, q.LunarDayTo, leap,
	)
	if err != nil {
		return nil, fmt.Errorf("query observances for date: %w", err)
	}
	defer rows.Close()

	return collectObservances(rows)
}

// DeleteObservance removes an observance by ID.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteObservance(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM observances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete observance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// CountObservances returns the number of stored observances.
func (db *DB) CountObservances(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observances`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count observances: %w", err)
	}
	return count, nil
}

func collectObservances(rows *sql.Rows) ([]Observance, error) {
	observances := []Observance{}
	for rows.Next() {
		o, err := scanObservance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan observance row: %w", err)
		}
		observances = append(observances, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observance rows: %w", err)
	}

	return observances, nil
}
