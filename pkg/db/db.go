// Package db persists the word frequency dictionary in SQLite. The file
// layout and schema are shared with the lekhika input method engine, so
// nothing here may alter the schema beyond creating it when absent.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the dictionary location used by the input method
// engine and the GUI trainer.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "fcitx5-lekhika", "lekhikadict.akshardb"), nil
}

// Open opens the dictionary at path, creating parent directories and the
// schema as needed. The caller owns the returned handle and must close it.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dictionary directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize dictionary schema: %w", err)
	}
	return conn, nil
}

// InitDB creates the schema and seeds the metadata rows if missing.
// Safe to run against an already-initialized dictionary.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(schemaSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
