package query

import (
	"context"
	"errors"
	"testing"
)

func TestApplyJMESPath(t *testing.T) {
	value := `{"user":{"name":"ada","tags":["x","y"]},"count":3}`

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"scalar string", "user.name", `"ada"`},
		{"number", "count", "3"},
		{"array", "user.tags", "[\n    \"x\",\n    \"y\"\n]"},
		{"object", "user", "{\n    \"name\": \"ada\",\n    \"tags\": [\n        \"x\",\n        \"y\"\n    ]\n}"},
		{"missing", "nope", "null"},
		{"empty expression", "", "{\n    \"user\": {\n        \"name\": \"ada\",\n        \"tags\": [\n            \"x\",\n            \"y\"\n        ]\n    },\n    \"count\": 3\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(context.Background(), value, tt.expr)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestApplyPlainValue(t *testing.T) {
	_, err := Apply(context.Background(), "just text", "a.b")
	if !errors.Is(err, ErrNotStructured) {
		t.Errorf("Expected ErrNotStructured, got %v", err)
	}
}

func TestApplyInvalidExpression(t *testing.T) {
	if _, err := Apply(context.Background(), `{"a":1}`, "a[["); err == nil {
		t.Error("Expected an error for an invalid expression")
	}
}

func TestApplyShellCommand(t *testing.T) {
	got, err := Apply(context.Background(), "hello world", "$(tr a-z A-Z)")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != "HELLO WORLD" {
		t.Errorf("Expected HELLO WORLD, got %q", got)
	}
}

func TestApplyShellCommandFailure(t *testing.T) {
	if _, err := Apply(context.Background(), "x", "$(exit 3)"); err == nil {
		t.Error("Expected an error from a failing command")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"a.b", true},
		{"items[?x==`1`]", true},
		{"$(wc -c)", true},
		{"a[[", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.expr); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}
