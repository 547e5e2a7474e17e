package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLite persists preferences in the settings table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a settings store over an open database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Get returns the stored value for key, or empty when absent.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key, overwriting any previous value.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`, key, value, now); err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}
