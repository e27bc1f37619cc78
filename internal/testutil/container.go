// Package testutil builds SQLite containers for tests.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/dbedit/internal/types"
)

// WriteContainer creates a container at path with an Entity(id, value) table
// holding rows in order
func WriteContainer(t *testing.T, path string, rows []types.Record) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE Entity (id TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("Failed to create fixture table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO Entity (id, value) VALUES (?, ?)`, r.Key, r.Value); err != nil {
			t.Fatalf("Failed to insert fixture row %q: %v", r.Key, err)
		}
	}
}

// NewContainer creates a container in a temp directory and returns its path
func NewContainer(t *testing.T, rows []types.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	WriteContainer(t, path, rows)
	return path
}

// ContainerBytes creates a container and returns its raw bytes
func ContainerBytes(t *testing.T, rows []types.Record) []byte {
	t.Helper()
	data, err := os.ReadFile(NewContainer(t, rows))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return data
}

// ReadContainer returns all Entity rows of the container at path, in rowid order
func ReadContainer(t *testing.T, path string) []types.Record {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, COALESCE(value, '') FROM Entity ORDER BY rowid`)
	if err != nil {
		t.Fatalf("Failed to query database: %v", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.Key, &r.Value); err != nil {
			t.Fatalf("Failed to scan row: %v", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to iterate rows: %v", err)
	}
	return records
}
