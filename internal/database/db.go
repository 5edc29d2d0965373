package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with the monitor's queries.
type DB struct {
	*sql.DB
}

// New creates a new database connection.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables.
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS scan_results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL,
        tag TEXT NOT NULL,
        method TEXT,
        download_mbps REAL,
        upload_mbps REAL,
        ping_ms REAL,
        network_count INTEGER,
        score INTEGER NOT NULL,
        label TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_scan_timestamp ON scan_results(timestamp);
    CREATE INDEX IF NOT EXISTS idx_scan_tag_timestamp ON scan_results(tag, timestamp);

    CREATE TABLE IF NOT EXISTS outages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        start_time DATETIME NOT NULL,
        end_time DATETIME NOT NULL,
        duration_seconds REAL NOT NULL,
        checks_failed INTEGER NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_outage_start ON outages(start_time);

    CREATE TABLE IF NOT EXISTS hourly_stats (
        hour DATETIME NOT NULL PRIMARY KEY,
        scan_count INTEGER,
        avg_score REAL,
        avg_download_mbps REAL,
        avg_upload_mbps REAL,
        avg_ping_ms REAL
    );

    -- Versioned client-state blobs (last scan, user profile).
    CREATE TABLE IF NOT EXISTS app_state (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS early_access (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT NOT NULL,
        source TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
