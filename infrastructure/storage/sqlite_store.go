package storage

import (
	"autoclicker/domain/interfaces"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const settingsDB = "settings.db"

// SQLiteStore keeps settings in a key/value table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the settings database under dir.
// Pass ":memory:" as dir for a throwaway in-memory store.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dir != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn = filepath.Join(dir, settingsDB)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`)
	return err
}

// Set stores value under key, replacing any previous value
func (s *SQLiteStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Get decodes the value under key into dst
func (s *SQLiteStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ interfaces.KVStore = (*SQLiteStore)(nil)
