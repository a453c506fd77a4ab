package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the key-value contract the admission pipeline and commands
// persist through. Everything lives in a single sqlite table; callers use
// the scoped views in views.go rather than raw keys.
type Store struct {
	db *sqlx.DB
}

// Open opens (and if needed creates) the sqlite-backed store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `CREATE TABLE IF NOT EXISTS "kv" (
		"key" TEXT NOT NULL PRIMARY KEY,
		"value" TEXT NOT NULL
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM "kv" WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any existing value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO "kv"(key, value) VALUES (?, ?)`, key, value)
	return err
}

// Has reports whether key is present.
func (s *Store) Has(key string) (bool, error) {
	var one int
	err := s.db.Get(&one, `SELECT 1 FROM "kv" WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM "kv" WHERE key = ?`, key)
	return err
}

// Keys enumerates all keys with the given prefix; an empty prefix
// enumerates everything.
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Select(&keys, `SELECT key FROM "kv" WHERE key LIKE ? ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, err
	}
	return keys, nil
}
