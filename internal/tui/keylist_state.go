package tui

import (
	"sync"

	"github.com/sahilm/fuzzy"
)

// KeyListState manages key list navigation and fuzzy filtering with thread safety
type KeyListState struct {
	mu sync.RWMutex

	allKeys []string // Every key of the session, in load order
	visible []string // Keys shown after filtering

	index  int // Cursor position in visible
	offset int // Scroll offset

	filter string
}

// NewKeyListState creates an empty key list state
func NewKeyListState() *KeyListState {
	return &KeyListState{}
}

// SetKeys replaces the key list and drops the filter
func (s *KeyListState) SetKeys(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allKeys = keys
	s.visible = keys
	s.filter = ""
	s.index = 0
	s.offset = 0
}

// Visible returns a copy of the keys currently shown
func (s *KeyListState) Visible() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.visible))
	copy(result, s.visible)
	return result
}

// Total returns the number of keys before filtering
func (s *KeyListState) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.allKeys)
}

// Current returns the key under the cursor
func (s *KeyListState) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index < 0 || s.index >= len(s.visible) {
		return "", false
	}
	return s.visible[s.index], true
}

// Index returns the cursor position
func (s *KeyListState) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Offset returns the scroll offset
func (s *KeyListState) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Navigate moves the cursor by delta positions, wrapping at both ends
func (s *KeyListState) Navigate(delta int, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.visible) == 0 {
		return
	}

	s.index += delta
	if s.index < 0 {
		s.index = len(s.visible) - 1
	} else if s.index >= len(s.visible) {
		s.index = 0
	}
	s.adjustScrollOffsetLocked(pageSize)
}

// Page moves the cursor by delta positions without wrapping
func (s *KeyListState) Page(delta int, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.visible) == 0 {
		return
	}
	s.index = clamp(s.index+delta, 0, len(s.visible)-1)
	s.adjustScrollOffsetLocked(pageSize)
}

// Top moves the cursor to the first key
func (s *KeyListState) Top() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.offset = 0
}

// Bottom moves the cursor to the last key
func (s *KeyListState) Bottom(pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.visible) == 0 {
		return
	}
	s.index = len(s.visible) - 1
	s.adjustScrollOffsetLocked(pageSize)
}

// adjustScrollOffsetLocked must be called with lock held
func (s *KeyListState) adjustScrollOffsetLocked(pageSize int) {
	if pageSize < 1 {
		pageSize = 1
	}
	if s.index < s.offset {
		s.offset = s.index
	} else if s.index >= s.offset+pageSize {
		s.offset = s.index - pageSize + 1
	}
}

// Filter shows only keys matching query, best match first. An empty query
// shows every key in load order.
func (s *KeyListState) Filter(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = query
	s.index = 0
	s.offset = 0

	if query == "" {
		s.visible = s.allKeys
		return len(s.visible)
	}

	matches := fuzzy.Find(query, s.allKeys)
	s.visible = make([]string, len(matches))
	for i, match := range matches {
		s.visible[i] = match.Str
	}
	return len(s.visible)
}

// FilterQuery returns the active filter
func (s *KeyListState) FilterQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Reveal moves the cursor onto key when it is visible
func (s *KeyListState) Reveal(key string, pageSize int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.visible {
		if k == key {
			s.index = i
			s.adjustScrollOffsetLocked(pageSize)
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
