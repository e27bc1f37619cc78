package tui

import (
	"sync"

	"github.com/studiowebux/dbedit/internal/types"
)

// HistoryState encapsulates the save history modal state
type HistoryState struct {
	mu sync.RWMutex

	entries []types.SaveEntry
	index   int

	confirmClear bool
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{}
}

// GetEntries returns a copy of the entries slice
func (s *HistoryState) GetEntries() []types.SaveEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.SaveEntry, len(s.entries))
	copy(result, s.entries)
	return result
}

// SetEntries replaces the entries and keeps the index in range
func (s *HistoryState) SetEntries(entries []types.SaveEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	if s.index >= len(entries) {
		s.index = 0
	}
}

// GetIndex returns the current index
func (s *HistoryState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the index by delta, wrapping at both ends
func (s *HistoryState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return
	}
	s.index = (s.index + delta + len(s.entries)) % len(s.entries)
}

// SetIndex sets the index, clamped to the entries
func (s *HistoryState) SetIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		s.index = 0
		return
	}
	s.index = clamp(index, 0, len(s.entries)-1)
}

// GetCurrentEntry returns the entry under the cursor
func (s *HistoryState) GetCurrentEntry() (types.SaveEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index < 0 || s.index >= len(s.entries) {
		return types.SaveEntry{}, false
	}
	return s.entries[s.index], true
}

// ConfirmingClear reports whether the clear confirmation is shown
func (s *HistoryState) ConfirmingClear() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirmClear
}

// SetConfirmClear shows or hides the clear confirmation
func (s *HistoryState) SetConfirmClear(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmClear = v
}

// Clear removes all entries
func (s *HistoryState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = 0
	s.confirmClear = false
}
