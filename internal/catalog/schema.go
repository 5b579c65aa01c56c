// Package catalog exports loaded content indexes into a SQLite snapshot for
// offline tooling.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	path      TEXT PRIMARY KEY,
	namespace TEXT NOT NULL,
	eid       TEXT NOT NULL,
	slug      TEXT NOT NULL,
	title     TEXT NOT NULL,
	date      TEXT NOT NULL,
	year      INTEGER NOT NULL,
	unix      INTEGER NOT NULL,
	image     TEXT,
	content   TEXT NOT NULL,
	checksum  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entry_tags (
	path     TEXT NOT NULL REFERENCES entries(path) ON DELETE CASCADE,
	tag      TEXT NOT NULL,
	position INTEGER NOT NULL,
	UNIQUE(path, position)
);

CREATE INDEX IF NOT EXISTS idx_entries_eid ON entries(eid);
CREATE INDEX IF NOT EXISTS idx_entries_year ON entries(year);
CREATE INDEX IF NOT EXISTS idx_entries_unix ON entries(unix);
CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag);
`

// DB wraps a sql.DB holding a catalog snapshot.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
