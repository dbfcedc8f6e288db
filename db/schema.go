// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// DriverName maps a database type to its database/sql driver name.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return "sqlite", nil
	case TypePostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database type %q", dbType)
}

// CreateSchema creates the ledger tables.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	var idColumn string
	switch dbType {
	case TypeSQLite:
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	case TypePostgres:
		idColumn = "BIGSERIAL PRIMARY KEY"
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{id}}", idColumn))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Result rows, one per party per save
CREATE TABLE IF NOT EXISTS result_row (
    id {{id}},
    batch_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    precinct_id TEXT NOT NULL,
    municipality TEXT NOT NULL,
    party TEXT NOT NULL,
    name TEXT NOT NULL,
    votes INTEGER NOT NULL CHECK (votes >= 0),
    percentage TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    UNIQUE (batch_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_result_row_precinct ON result_row(precinct_id);

-- Photo evidence rows
CREATE TABLE IF NOT EXISTS photo_row (
    id {{id}},
    batch_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    precinct_id TEXT NOT NULL,
    table_label TEXT NOT NULL,
    url TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    actor TEXT NOT NULL,
    UNIQUE (batch_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_photo_row_precinct ON photo_row(precinct_id);

-- Activity log, one row per save
CREATE TABLE IF NOT EXISTS activity_log (
    id {{id}},
    batch_id TEXT NOT NULL UNIQUE,
    recorded_at TEXT NOT NULL,
    precinct_id TEXT NOT NULL,
    action TEXT NOT NULL,
    actor TEXT NOT NULL,
    summary TEXT NOT NULL
);

-- Candidate directory, maintained by operators
CREATE TABLE IF NOT EXISTS candidate (
    id {{id}},
    municipality TEXT NOT NULL DEFAULT '',
    party TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    office TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    rank TEXT NOT NULL DEFAULT ''
);
`
