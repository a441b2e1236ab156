package keystore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS wallet_keys (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL UNIQUE,
		seed TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id TEXT PRIMARY KEY,
		donation_id INTEGER NOT NULL DEFAULT 0,
		charity_id INTEGER NOT NULL,
		charity_name TEXT NOT NULL DEFAULT '',
		donor_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		tx_hash TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT '',
		donated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_donor ON receipts(donor_id, donated_at)`,
}

// OpenDB opens the local keystore database at the given path, creating the
// parent directory with owner-only permissions since the store holds signing
// seeds. ":memory:" is supported for tests. Migrations run on open.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating keystore directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening keystore: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	if path != ":memory:" {
		if err := os.Chmod(path, 0600); err != nil {
			db.Close()
			return nil, fmt.Errorf("restricting keystore permissions: %w", err)
		}
	}

	return db, nil
}
