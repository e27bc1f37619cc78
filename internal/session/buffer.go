package session

import "github.com/studiowebux/dbedit/internal/content"

// Buffer is a headless Surface. The CLI edits records through it and tests use
// it in place of a terminal widget.
type Buffer struct {
	text     string
	baseline string
	kind     content.Kind
}

// NewBuffer creates an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Content returns the current text
func (b *Buffer) Content() string {
	return b.text
}

// SetContent loads freshly displayed text and clears the edit state
func (b *Buffer) SetContent(text string, kind content.Kind) {
	b.text = text
	b.baseline = text
	b.kind = kind
}

// HasUnsavedEdits reports whether the text differs from what was last loaded
func (b *Buffer) HasUnsavedEdits() bool {
	return b.text != b.baseline
}

// Edit replaces the text the way a user typing would
func (b *Buffer) Edit(text string) {
	b.text = text
}

// Kind returns the content type hint given with the last load
func (b *Buffer) Kind() content.Kind {
	return b.kind
}
