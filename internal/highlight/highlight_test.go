package highlight

import (
	"regexp"
	"testing"

	"github.com/studiowebux/dbedit/internal/content"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestRenderStructured(t *testing.T) {
	text := "{\n    \"a\": 1\n}"
	got := Render(text, content.Structured)

	if got == text {
		t.Fatal("Expected color codes in structured output")
	}
	if plain := ansi.ReplaceAllString(got, ""); plain != text {
		t.Errorf("Expected text to survive highlighting, got %q", plain)
	}
}

func TestRenderPlain(t *testing.T) {
	text := "just {text"
	if got := Render(text, content.Plain); got != text {
		t.Errorf("Expected plain text unchanged, got %q", got)
	}
}

func TestRenderUnknownStyle(t *testing.T) {
	got := RenderStyle(`{"a":1}`, content.Structured, "no-such-style")
	if ansi.ReplaceAllString(got, "") != `{"a":1}` {
		t.Errorf("Expected fallback style to render, got %q", got)
	}
}

func TestStyles(t *testing.T) {
	if len(Styles()) == 0 {
		t.Error("Expected registered styles")
	}
}
