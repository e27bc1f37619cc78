// Package bookmarks remembers query expressions that ran successfully so they
// can be recalled from the query prompt and listed from the CLI.
package bookmarks

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/migrations"
)

// ErrNotFound is returned when deleting a bookmark that does not exist
var ErrNotFound = errors.New("bookmark not found")

// Bookmark represents a saved query expression
type Bookmark struct {
	ID         int64     `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// Manager handles bookmark persistence in the application database
type Manager struct {
	db *sql.DB
}

// NewManager opens the application database at dbPath
func NewManager(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create bookmarks directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save adds expression. It reports false when the expression was already saved.
func (m *Manager) Save(expression string) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false, errors.New("expression cannot be empty")
	}

	result, err := m.db.Exec(`
		INSERT INTO query_bookmarks (expression, created_at)
		VALUES (?, ?)
		ON CONFLICT(expression) DO NOTHING
	`, expression, time.Now().UTC().Format(time.DateTime))
	if err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check save result: %w", err)
	}
	return rows > 0, nil
}

// Delete removes a bookmark by ID
func (m *Manager) Delete(id int64) error {
	result, err := m.db.Exec("DELETE FROM query_bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// List returns all bookmarks, newest first
func (m *Manager) List() ([]Bookmark, error) {
	rows, err := m.db.Query(`
		SELECT id, expression, created_at
		FROM query_bookmarks
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

// Search filters bookmarks by substring match (case-insensitive for ASCII)
func (m *Manager) Search(query string) ([]Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.List()
	}

	rows, err := m.db.Query(`
		SELECT id, expression, created_at
		FROM query_bookmarks
		WHERE expression LIKE ? ESCAPE '\'
		ORDER BY id DESC
	`, "%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

// Expressions returns the saved expressions, newest first
func (m *Manager) Expressions() ([]string, error) {
	list, err := m.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, len(list))
	for i, b := range list {
		result[i] = b.Expression
	}
	return result, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func scanBookmarks(rows *sql.Rows) ([]Bookmark, error) {
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var created string
		if err := rows.Scan(&b.ID, &b.Expression, &created); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.CreatedAt = parseTimestamp(created)
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}

// parseTimestamp reads a UTC timestamp written by Save or by the column
// default. The driver may hand back RFC3339 for DATETIME columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Local()
		}
	}
	return time.Time{}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
