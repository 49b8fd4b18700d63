package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Open opens the SQLite content database at path, creating the schema if it
// does not exist yet.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// migrate applies schema migrations based on user_version.
func migrate(database *sql.DB) error {
	version, err := GetUserVersion(database)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS posts (
		  id           INTEGER PRIMARY KEY,
		  post_type    TEXT NOT NULL DEFAULT 'post',
		  post_status  TEXT NOT NULL DEFAULT 'draft',
		  post_title   TEXT NOT NULL DEFAULT '',
		  post_content TEXT NOT NULL DEFAULT '',
		  post_excerpt TEXT NOT NULL DEFAULT '',
		  post_name    TEXT NOT NULL,
		  post_parent  INTEGER,
		  post_author  INTEGER,
		  post_date    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS users (
		  id           INTEGER PRIMARY KEY,
		  display_name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS postmeta (
		  post_id    INTEGER NOT NULL,
		  meta_key   TEXT NOT NULL,
		  meta_value TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS post_terms (
		  post_id  INTEGER NOT NULL,
		  taxonomy TEXT NOT NULL,
		  name     TEXT NOT NULL,
		  position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS options (
		  option_name  TEXT PRIMARY KEY,
		  option_value TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_posts_status_type
		ON posts(post_status, post_type);

		CREATE INDEX IF NOT EXISTS idx_postmeta_post_id
		ON postmeta(post_id, meta_key);

		CREATE INDEX IF NOT EXISTS idx_post_terms_post_id
		ON post_terms(post_id, taxonomy, position);
		`
		if _, err := database.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(database, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(database *sql.DB) (int, error) {
	var version int
	if err := database.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(database *sql.DB, version int) error {
	_, err := database.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
