// Package store provides snapshot backends implementing todo.Repository.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MihkelHunter/mktodo/internal/todo"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key       TEXT    PRIMARY KEY,
	version   INTEGER NOT NULL,
	data      TEXT    NOT NULL,
	saved_at  TEXT    NOT NULL
);`

// SQLiteStore implements todo.Repository using SQLite. Each key holds one
// snapshot row; saving overwrites it.
type SQLiteStore struct {
	db *sql.DB
}

var _ todo.Repository = (*SQLiteStore)(nil)

// New opens (or creates) a SQLite database at the given path and returns a Store.
// The parent directory is created if missing.
func New(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(key string) (todo.Record, bool, error) {
	var rec todo.Record
	var data, savedAt string
	err := s.db.QueryRow(
		`SELECT version, data, saved_at FROM snapshots WHERE key = ?`, key,
	).Scan(&rec.Version, &data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Record{}, false, nil
	}
	if err != nil {
		return todo.Record{}, false, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	rec.Data = []byte(data)
	rec.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
	return rec, true, nil
}

func (s *SQLiteStore) Save(key string, rec todo.Record) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, version, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version=excluded.version, data=excluded.data, saved_at=excluded.saved_at`,
		key, rec.Version, string(rec.Data), rec.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
