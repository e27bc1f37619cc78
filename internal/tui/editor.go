package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/content"
)

// editorSurface is the Text Surface of the TUI: a textarea that remembers the
// text it was last loaded with so it can tell user edits apart.
//
// The textarea rewrites text on insert: tabs become spaces, a carriage return
// becomes a line break and other control characters are dropped. A value it
// cannot hold byte for byte is kept verbatim and shown read-only, so Content
// always returns exactly what was loaded or replaced.
type editorSurface struct {
	area     textarea.Model
	baseline string
	kind     content.Kind
	verbatim string // Exact text while readOnly
	readOnly bool
}

func newEditorSurface() *editorSurface {
	area := textarea.New()
	area.ShowLineNumbers = true
	area.Prompt = ""
	area.CharLimit = 0
	area.MaxHeight = 0
	area.Placeholder = "Select a key to edit its value"
	area.SetWidth(80)
	area.SetHeight(20)
	return &editorSurface{area: area}
}

// Content returns the text being edited
func (e *editorSurface) Content() string {
	if e.readOnly {
		return e.verbatim
	}
	return e.area.Value()
}

// SetContent loads text and clears the edit state
func (e *editorSurface) SetContent(text string, kind content.Kind) {
	e.load(text)
	e.baseline = text
	e.kind = kind
}

// HasUnsavedEdits reports whether the text changed since it was loaded
func (e *editorSurface) HasUnsavedEdits() bool {
	return e.Content() != e.baseline
}

// Replace swaps the text the way typing would, keeping the baseline
func (e *editorSurface) Replace(text string) {
	e.load(text)
}

// MarkClean makes the current text the new baseline
func (e *editorSurface) MarkClean() {
	e.baseline = e.Content()
}

// ReadOnly reports whether the text can only be changed with Replace
func (e *editorSurface) ReadOnly() bool {
	return e.readOnly
}

func (e *editorSurface) load(text string) {
	e.area.SetValue(text)
	e.readOnly = e.area.Value() != text
	e.verbatim = ""
	if e.readOnly {
		e.verbatim = text
	}
}

// Kind returns the content type hint of the loaded text
func (e *editorSurface) Kind() content.Kind {
	return e.kind
}

func (e *editorSurface) Focus() tea.Cmd { return e.area.Focus() }
func (e *editorSurface) Blur()          { e.area.Blur() }
func (e *editorSurface) Focused() bool  { return e.area.Focused() }

func (e *editorSurface) SetSize(width, height int) {
	e.area.SetWidth(max(width, 10))
	e.area.SetHeight(max(height, 1))
}

func (e *editorSurface) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); ok && e.readOnly {
		return nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return cmd
}

func (e *editorSurface) View() string {
	return e.area.View()
}
