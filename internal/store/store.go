// Package store is the Tabular Store: it opens a SQLite container from raw
// bytes, lists its key/value rows, applies parameterized row updates and
// exports the result back to bytes.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/dbedit/internal/types"
)

// sqliteMagic is the header every SQLite 3 database file starts with
const sqliteMagic = "SQLite format 3\x00"

// Schema names the table and columns holding the records
type Schema struct {
	Table       string
	KeyColumn   string
	ValueColumn string
}

// DefaultSchema is the layout of the containers dbedit was written for
var DefaultSchema = Schema{
	Table:       "Entity",
	KeyColumn:   "id",
	ValueColumn: "value",
}

// Store is an opened container backed by a private working copy
type Store struct {
	db     *sql.DB
	path   string
	schema Schema

	// rawKeys keeps the stored identifier so updates bind the exact value
	rawKeys map[string]any
	// nullValues remembers rows whose value was NULL at load time
	nullValues map[string]bool
}

// LoadFromBytes opens data as a container and returns its records in table order.
// The returned store must be closed to remove its working copy.
func LoadFromBytes(ctx context.Context, data []byte, schema Schema) (*Store, []types.Record, error) {
	if len(data) < len(sqliteMagic) || string(data[:len(sqliteMagic)]) != sqliteMagic {
		return nil, nil, fmt.Errorf("%w: missing SQLite header", types.ErrCorruptContainer)
	}

	f, err := os.CreateTemp("", "dbedit-*.db")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create working copy: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, nil, fmt.Errorf("failed to write working copy: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, nil, fmt.Errorf("failed to write working copy: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		os.Remove(path)
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps every statement on the same view of the file.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:         db,
		path:       path,
		schema:     schema,
		rawKeys:    make(map[string]any),
		nullValues: make(map[string]bool),
	}

	// Exported bytes come straight from the main file, so no WAL may hold data.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=DELETE"); err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("%w: %v", types.ErrCorruptContainer, err)
	}

	records, err := s.readAll(ctx)
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	slog.DebugContext(ctx, "Container loaded", "table", schema.Table, "rows", len(records), "bytes", len(data))
	return s, records, nil
}

func (s *Store) readAll(ctx context.Context) ([]types.Record, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY rowid",
		quoteIdent(s.schema.KeyColumn),
		quoteIdent(s.schema.ValueColumn),
		quoteIdent(s.schema.Table),
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil && strings.Contains(err.Error(), "rowid") {
		// WITHOUT ROWID tables keep primary key order.
		rows, err = s.db.QueryContext(ctx, strings.TrimSuffix(query, " ORDER BY rowid"))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCorruptContainer, err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var rawKey any
		var value sql.NullString
		if err := rows.Scan(&rawKey, &value); err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", types.ErrCorruptContainer, err)
		}

		key := keyString(rawKey)
		if prev, ok := s.rawKeys[key]; ok && !sameKey(prev, rawKey) {
			return nil, fmt.Errorf("%w: identifiers %#v and %#v are both listed as %q",
				types.ErrCorruptContainer, prev, rawKey, key)
		}
		s.rawKeys[key] = rawKey
		if !value.Valid {
			s.nullValues[key] = true
		}
		records = append(records, types.Record{Key: key, Value: value.String})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating rows: %v", types.ErrCorruptContainer, err)
	}

	return records, nil
}

// UpdateRow sets the value of the row identified by key.
// The value is bound as a parameter and never spliced into the statement.
func (s *Store) UpdateRow(ctx context.Context, key, value string) error {
	rawKey, ok := s.rawKeys[key]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownKey, key)
	}

	var arg any = value
	if value == "" && s.nullValues[key] {
		arg = nil
	}

	// IS also matches a NULL identifier
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s IS ?",
		quoteIdent(s.schema.Table),
		quoteIdent(s.schema.ValueColumn),
		quoteIdent(s.schema.KeyColumn),
	)

	result, err := s.db.ExecContext(ctx, query, arg, rawKey)
	if err != nil {
		return fmt.Errorf("%w: failed to update %q: %v", types.ErrStoreWrite, key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check update of %q: %v", types.ErrStoreWrite, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", types.ErrUnknownKey, key)
	}

	if arg != nil {
		delete(s.nullValues, key)
	}
	return nil
}

// ExportBytes returns the full binary image of the container
func (s *Store) ExportBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to export database: %v", types.ErrStoreWrite, err)
	}
	return data, nil
}

// Close closes the database and removes the working copy
func (s *Store) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
		s.db = nil
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		s.path = ""
	}
	return errors.Join(errs...)
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sameKey reports whether two stored identifiers are the same value of the
// same type
func sameKey(a, b any) bool {
	ab, aBytes := a.([]byte)
	bb, bBytes := b.([]byte)
	if aBytes || bBytes {
		return aBytes && bBytes && bytes.Equal(ab, bb)
	}
	return a == b
}

// keyString renders a stored identifier the way it is listed to the user
func keyString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
