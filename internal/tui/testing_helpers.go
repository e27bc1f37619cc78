package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/bookmarks"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/recent"
	"github.com/studiowebux/dbedit/internal/testutil"
	"github.com/studiowebux/dbedit/internal/types"
)

// CreateTestModel creates a Model instance for testing with minimal dependencies.
// Messages never auto-clear and the file watcher is off.
func CreateTestModel(t *testing.T) *Model {
	t.Helper()

	tempDir := t.TempDir()

	settings := config.DefaultSettings()
	settings.MessageTimeout = 0
	settings.Watch = false

	hist, err := history.NewManager(tempDir + "/history.db")
	if err != nil {
		t.Fatalf("Failed to create history manager: %v", err)
	}

	marks, err := bookmarks.NewManager(tempDir + "/history.db")
	if err != nil {
		t.Fatalf("Failed to create bookmarks manager: %v", err)
	}

	m, err := New(Options{
		Settings:  settings,
		Recent:    recent.NewManager(tempDir + "/recent.json"),
		History:   hist,
		Bookmarks: marks,
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m
}

// CreateTestModelWithContainer creates a Model with rows already loaded and
// returns the container path
func CreateTestModelWithContainer(t *testing.T, rows []types.Record) (*Model, string) {
	t.Helper()

	m := CreateTestModel(t)
	path := testutil.NewContainer(t, rows)
	OpenContainer(t, m, path)
	return m, path
}

// OpenContainer opens path and runs the load to completion
func OpenContainer(t *testing.T, m *Model, path string) {
	t.Helper()

	cmd := m.openContainer(path)
	if cmd == nil {
		t.Fatalf("Open of %s was refused: %s", path, m.statusMsg)
	}
	msg, ok := cmd().(openDoneMsg)
	if !ok {
		t.Fatalf("Open of %s was refused: %s", path, m.statusMsg)
	}
	m.Update(msg)
}

// PressKey sends a key by its name ("ctrl+s", "enter", "j", ...) and returns
// the resulting command
func PressKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyMsg(key))
	return cmd
}

// TypeText sends text as typed runes
func TypeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// SaveByKey presses the save binding and runs the save to completion
func SaveByKey(t *testing.T, m *Model) {
	t.Helper()

	cmd := PressKey(m, "ctrl+s")
	if cmd == nil {
		t.Fatalf("Save was refused: %s", m.statusMsg)
	}
	msg, ok := cmd().(saveDoneMsg)
	if !ok {
		t.Fatalf("Save was refused: %s", m.statusMsg)
	}
	m.Update(msg)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+j":
		return tea.KeyMsg{Type: tea.KeyCtrlJ}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
