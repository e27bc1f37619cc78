package content

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		value string
		want  Kind
	}{
		{`{"a":1}`, Structured},
		{`  [1, 2, 3]  `, Structured},
		{`"quoted"`, Structured},
		{`42`, Structured},
		{`null`, Structured},
		{``, Plain},
		{`hello`, Plain},
		{`o'clock`, Plain},
		{`{"a":`, Plain},
		{`{"a":1} trailing`, Plain},
	}

	for _, tt := range tests {
		if got := Detect(tt.value); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDisplayForm(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"object", `{"a":1}`, "{\n    \"a\": 1\n}"},
		{"nested", `{"a":[1,{"b":true}]}`, "{\n    \"a\": [\n        1,\n        {\n            \"b\": true\n        }\n    ]\n}"},
		{"surrounding whitespace", "  {\"a\":1}\n", "{\n    \"a\": 1\n}"},
		{"empty object", `{}`, `{}`},
		{"scalar", `42`, `42`},
		{"plain", "hello\nworld", "hello\nworld"},
		{"broken json", `{"a":`, `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayForm(tt.value); got != tt.want {
				t.Errorf("DisplayForm(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCanonicalForm(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"pretty object", "{\n    \"a\": 2\n}", `{"a":2}`},
		{"keeps member order", `{ "z": 1, "a": 2 }`, `{"z":1,"a":2}`},
		{"keeps number spelling", `[1.0, 2e3]`, `[1.0,2e3]`},
		{"keeps string spaces", `{"k": "a b"}`, `{"k":"a b"}`},
		{"no html escaping", `{"k": "<&>"}`, `{"k":"<&>"}`},
		{"plain untouched", "  hello  ", "  hello  "},
		{"quote in plain", `o'clock`, `o'clock`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalForm(tt.value); got != tt.want {
				t.Errorf("CanonicalForm(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormsAreIdempotent(t *testing.T) {
	values := []string{
		`{"a":1}`,
		"{\n  \"list\": [1, 2, {\"x\": null}],\n  \"s\": \"v\"\n}",
		`[]`,
		`"str"`,
		`plain text`,
		`{"broken":`,
		"",
	}

	for _, v := range values {
		canonical := CanonicalForm(v)
		if again := CanonicalForm(canonical); again != canonical {
			t.Errorf("CanonicalForm not idempotent for %q: %q then %q", v, canonical, again)
		}

		display := DisplayForm(v)
		if again := DisplayForm(display); again != display {
			t.Errorf("DisplayForm not idempotent for %q: %q then %q", v, display, again)
		}

		if back := CanonicalForm(DisplayForm(canonical)); back != canonical {
			t.Errorf("display round trip changed %q into %q", canonical, back)
		}

		if Detect(v) == Structured {
			var want, got any
			if err := json.Unmarshal([]byte(v), &want); err != nil {
				t.Fatalf("unmarshal %q: %v", v, err)
			}
			if err := json.Unmarshal([]byte(DisplayForm(canonical)), &got); err != nil {
				t.Fatalf("unmarshal display of %q: %v", v, err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("display form of %q parses to %v, want %v", v, got, want)
			}
		}
	}
}

func TestKindString(t *testing.T) {
	if Structured.String() != "json" {
		t.Errorf("Structured.String() = %q", Structured.String())
	}
	if Plain.String() != "text" {
		t.Errorf("Plain.String() = %q", Plain.String())
	}
}
