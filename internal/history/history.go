// Package history is the save journal: every save attempt is recorded in the
// application database so past saves can be listed from the CLI and the TUI.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/migrations"
	"github.com/studiowebux/dbedit/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	// Run database migrations
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record stores one save attempt
func (m *Manager) Record(entry types.SaveEntry) error {
	query := `
		INSERT INTO save_history (
			timestamp, container_path, record_count, bytes_written,
			duration_ms, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var errMsg sql.NullString
	if entry.Error != "" {
		errMsg = sql.NullString{String: entry.Error, Valid: true}
	}

	_, err := m.db.Exec(query,
		ts.UTC().Format(timestampLayout),
		entry.ContainerPath,
		entry.RecordCount,
		entry.BytesWritten,
		entry.DurationMs,
		string(entry.Status),
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// List returns the most recent entries first. A limit of zero or less returns all.
func (m *Manager) List(limit int) ([]types.SaveEntry, error) {
	query := `
		SELECT id, timestamp, container_path, record_count, bytes_written,
		       duration_ms, status, error
		FROM save_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListForContainer returns the entries of one container, most recent first
func (m *Manager) ListForContainer(path string) ([]types.SaveEntry, error) {
	query := `
		SELECT id, timestamp, container_path, record_count, bytes_written,
		       duration_ms, status, error
		FROM save_history
		WHERE container_path = ?
		ORDER BY timestamp DESC, id DESC
	`

	rows, err := m.db.Query(query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for container: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.SaveEntry, error) {
	var entries []types.SaveEntry

	for rows.Next() {
		var entry types.SaveEntry
		var timestamp string
		var status string
		var errMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.ContainerPath,
			&entry.RecordCount,
			&entry.BytesWritten,
			&entry.DurationMs,
			&status,
			&errMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		// Timestamps are stored in UTC; the driver may already return RFC3339
		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsed = time.Time{}
			}
		}

		entry.Timestamp = parsed.Local()
		entry.Status = types.Status(status)
		entry.Error = errMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM save_history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM save_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM save_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// FormatSize formats a byte count for display
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
