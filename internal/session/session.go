// Package session holds the records of one loaded container, the active key,
// and the rules for moving edits between the Text Surface and the records.
package session

import (
	"fmt"

	"github.com/studiowebux/dbedit/internal/content"
	"github.com/studiowebux/dbedit/internal/types"
)

// Surface is the editable text widget that shows the active record.
// It alone tracks whether its content changed since it was last loaded.
type Surface interface {
	Content() string
	SetContent(text string, kind content.Kind)
	HasUnsavedEdits() bool
}

// Session owns the records of one container and the active key
type Session struct {
	surface Surface

	keys   []string          // Load order, used for listing
	values map[string]string // Canonical values by key

	active    string
	hasActive bool
}

// New creates an empty session bound to a surface
func New(surface Surface) *Session {
	return &Session{
		surface: surface,
		values:  make(map[string]string),
	}
}

// Load replaces all state with entries. The previous records, active key and
// any unflushed edit are discarded, even when entries is empty.
// Duplicate keys keep their first position and their last value.
func (s *Session) Load(entries []types.Record) error {
	s.keys = make([]string, 0, len(entries))
	s.values = make(map[string]string, len(entries))
	s.active = ""
	s.hasActive = false
	s.surface.SetContent("", content.Plain)

	for _, e := range entries {
		if _, seen := s.values[e.Key]; !seen {
			s.keys = append(s.keys, e.Key)
		}
		s.values[e.Key] = content.CanonicalForm(e.Value)
	}

	if len(s.keys) == 0 {
		return types.ErrEmptyContainer
	}
	return nil
}

// Select makes key the active key. A pending edit of the previously active key
// is committed first, then the surface is loaded with key's display form.
func (s *Session) Select(key string) error {
	value, ok := s.values[key]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownKey, key)
	}

	s.FlushActive()

	s.active = key
	s.hasActive = true
	s.surface.SetContent(content.DisplayForm(value), content.Detect(value))
	return nil
}

// FlushActive commits the surface content into the active record when the
// surface reports unsaved edits. It reports whether a record changed.
func (s *Session) FlushActive() bool {
	if !s.hasActive || !s.surface.HasUnsavedEdits() {
		return false
	}
	s.values[s.active] = content.CanonicalForm(s.surface.Content())
	return true
}

// Snapshot flushes the active edit and returns an immutable copy of all records
func (s *Session) Snapshot() Snapshot {
	s.FlushActive()

	records := make([]types.Record, len(s.keys))
	for i, k := range s.keys {
		records[i] = types.Record{Key: k, Value: s.values[k]}
	}
	return newSnapshot(records)
}

// ActiveKey returns the active key and whether one is set
func (s *Session) ActiveKey() (string, bool) {
	return s.active, s.hasActive
}

// Dirty reports whether the active record has edits not yet committed
func (s *Session) Dirty() bool {
	return s.hasActive && s.surface.HasUnsavedEdits()
}

// Keys returns the record keys in load order
func (s *Session) Keys() []string {
	result := make([]string, len(s.keys))
	copy(result, s.keys)
	return result
}

// Value returns the committed canonical value of key
func (s *Session) Value(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of records
func (s *Session) Len() int {
	return len(s.keys)
}

// Empty reports whether nothing is loaded
func (s *Session) Empty() bool {
	return len(s.keys) == 0
}
