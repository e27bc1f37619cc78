// Package content classifies record values as structured (JSON) or plain text
// and converts structured values between their display and canonical forms.
//
// Detection is a parse attempt. A value that does not parse is plain text and
// passes through both conversions unchanged; a parse failure is never an error.
package content

import (
	"bytes"
	"encoding/json"
)

// displayIndent is the fixed indentation used for the display form
const displayIndent = "    "

// Kind is the content type of a value
type Kind int

const (
	Plain Kind = iota
	Structured
)

// String returns the name used for editor and highlighter hints
func (k Kind) String() string {
	if k == Structured {
		return "json"
	}
	return "text"
}

// Detect reports whether value parses as a JSON document
func Detect(value string) Kind {
	if json.Valid([]byte(value)) {
		return Structured
	}
	return Plain
}

// DisplayForm returns value indented with four spaces when structured,
// otherwise value unchanged
func DisplayForm(value string) string {
	compact, ok := compact(value)
	if !ok {
		return value
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", displayIndent); err != nil {
		return value
	}
	return buf.String()
}

// CanonicalForm returns value without insignificant whitespace when structured,
// otherwise value unchanged. Member order and number spelling are preserved.
func CanonicalForm(value string) string {
	compact, ok := compact(value)
	if !ok {
		return value
	}
	return string(compact)
}

func compact(value string) ([]byte, bool) {
	src := []byte(value)
	if !json.Valid(src) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
