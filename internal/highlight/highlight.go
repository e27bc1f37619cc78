// Package highlight colors structured values for the preview pane.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/studiowebux/dbedit/internal/content"
)

// DefaultStyle is the chroma style used when none is configured
const DefaultStyle = "monokai"

// Render returns text with terminal color codes when kind is structured.
// Plain text, and any text chroma fails on, is returned unchanged.
func Render(text string, kind content.Kind) string {
	return RenderStyle(text, kind, DefaultStyle)
}

// RenderStyle is Render with a named chroma style
func RenderStyle(text string, kind content.Kind, style string) string {
	if kind != content.Structured || text == "" {
		return text
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		return text
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var b strings.Builder
	if err := formatter.Format(&b, s, iterator); err != nil {
		return text
	}
	return b.String()
}

// Styles lists the available style names
func Styles() []string {
	return styles.Names()
}
