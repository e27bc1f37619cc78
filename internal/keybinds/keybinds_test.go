package keybinds

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultRegistryMatch(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		context Context
		key     string
		want    Action
	}{
		{"save from editor", ContextEditor, "ctrl+s", ActionSave},
		{"save from keys", ContextKeys, "ctrl+s", ActionSave},
		{"select key", ContextKeys, "enter", ActionSelectKey},
		{"filter", ContextKeys, "/", ActionOpenFilter},
		{"help in keys", ContextKeys, "?", ActionOpenHelp},
		{"help everywhere", ContextEditor, "f1", ActionOpenHelp},
		{"quit", ContextViewer, "ctrl+q", ActionQuit},
		{"force quit", ContextPrompt, "ctrl+c", ActionQuitForce},
		{"editor leaves", ContextEditor, "esc", ActionSwitchFocus},
		{"prompt submit", ContextPrompt, "enter", ActionTextSubmit},
		{"viewer close", ContextViewer, "q", ActionCloseModal},
		{"history", ContextKeys, "ctrl+h", ActionOpenHistory},
		{"query", ContextEditor, "ctrl+j", ActionOpenQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			if !ok {
				t.Fatalf("Expected %q to be bound in %s", tt.key, tt.context)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEditorLeavesPrintableKeysUnbound(t *testing.T) {
	r := NewDefaultRegistry()
	for _, key := range []string{"q", "j", "k", "/", "?", "enter", "e"} {
		if _, ok := r.Match(ContextEditor, key); ok {
			t.Errorf("Expected %q to be typed in the editor", key)
		}
	}
}

func TestMatchMultiKey(t *testing.T) {
	r := NewDefaultRegistry()

	action, complete, partial := r.MatchMultiKey(ContextKeys, "g")
	if complete || !partial || action != "" {
		t.Fatalf("Expected partial match for g, got %s %v %v", action, complete, partial)
	}

	action, complete, partial = r.MatchMultiKey(ContextKeys, "g")
	if !complete || partial || action != ActionGoToTop {
		t.Errorf("Expected gg to go to top, got %s %v %v", action, complete, partial)
	}

	r.MatchMultiKey(ContextKeys, "g")
	action, complete, _ = r.MatchMultiKey(ContextKeys, "x")
	if complete || action != "" {
		t.Errorf("Expected gx to match nothing, got %s", action)
	}

	action, complete, _ = r.MatchMultiKey(ContextKeys, "j")
	if !complete || action != ActionNavigateDown {
		t.Errorf("Expected j after an aborted sequence to navigate, got %s", action)
	}
}

func TestClearMultiKeyState(t *testing.T) {
	r := NewDefaultRegistry()
	r.MatchMultiKey(ContextViewer, "g")
	r.ClearMultiKeyState(ContextViewer)

	if _, _, partial := r.MatchMultiKey(ContextViewer, "g"); !partial {
		t.Error("Expected a fresh sequence after clearing state")
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextKeys, ActionNavigateDown); got != "down/j" {
		t.Errorf("Expected down/j, got %s", got)
	}
	if got := r.GetBindingString(ContextEditor, ActionSave); got != "ctrl+s" {
		t.Errorf("Expected global fallback ctrl+s, got %s", got)
	}
	if got := r.GetBindingString(ContextPrompt, ActionHistoryClear); got != "unbound" {
		t.Errorf("Expected unbound, got %s", got)
	}
}

func TestParseConfigWithComments(t *testing.T) {
	data := []byte(`{
		// rebinding
		"version": "1.0",
		"keys": {
			"x": "open_editor",
			"e": "none", /* drop default */
		},
	}`)

	config, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	r := NewDefaultRegistry()
	if err := ApplyConfig(r, config); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}

	if action, _ := r.Match(ContextKeys, "x"); action != ActionOpenEditor {
		t.Errorf("Expected x to open the editor, got %s", action)
	}
	if _, ok := r.Match(ContextKeys, "e"); ok {
		t.Error("Expected e to be unbound")
	}
}

func TestApplyConfigRejectsUnknownAction(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{Keys: map[string]string{"z": "launch_rockets", "x": "open_editor"}})
	if err == nil || !strings.Contains(err.Error(), "launch_rockets") {
		t.Fatalf("Expected unknown action error, got %v", err)
	}
	if _, ok := r.Match(ContextKeys, "z"); ok {
		t.Error("Expected unknown action not to be registered")
	}
	if action, _ := r.Match(ContextKeys, "x"); action != ActionOpenEditor {
		t.Error("Expected valid bindings to apply despite errors")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	r, err := LoadOrDefault(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if !r.HasBinding(ContextKeys, "enter") {
		t.Error("Expected default bindings")
	}

	path := filepath.Join(dir, "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"global": {"ctrl+w": "save"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	r, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if action, _ := r.Match(ContextEditor, "ctrl+w"); action != ActionSave {
		t.Errorf("Expected ctrl+w to save, got %s", action)
	}

	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	r, err = LoadOrDefault(path)
	if err == nil {
		t.Error("Expected an error for an invalid file")
	}
	if r == nil || !r.HasBinding(ContextKeys, "enter") {
		t.Error("Expected defaults alongside the error")
	}
}

func TestExportRegistryRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()
	path := filepath.Join(t.TempDir(), "keybinds.json")

	if err := SaveConfig(ExportRegistry(r), path, 0644); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	loaded := NewRegistry()
	if err := ApplyConfig(loaded, config); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	for _, context := range AllContexts {
		if !reflect.DeepEqual(loaded.ListBindings(context), r.ListBindings(context)) {
			t.Errorf("Bindings differ in context %s", context)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Register(ContextKeys, "enter", ActionNoOp)

	if action, _ := r.Match(ContextKeys, "enter"); action != ActionSelectKey {
		t.Error("Expected original registry to be unchanged")
	}
}

func TestValidateDefaultRegistry(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())
	if result.HasErrors() {
		t.Errorf("Expected defaults to validate, got:\n%s", result.String())
	}
}

func TestValidatorWarnings(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextGlobal, "ctrl+c", ActionSave)
	r.Register(ContextEditor, "x", ActionCopyValue)
	r.Register(ContextKeys, "ctrl+s", ActionNoOp)

	result := NewValidator().ValidateRegistry(r)
	if !result.HasWarnings() {
		t.Fatal("Expected warnings")
	}

	var reserved, typing, shadow bool
	for _, w := range result.Warnings {
		switch {
		case w.Key == "ctrl+c" && strings.Contains(w.Message, "reserved"):
			reserved = true
		case w.Key == "x" && w.Context == ContextEditor:
			typing = true
		case w.Key == "ctrl+s" && strings.Contains(w.Message, "shadows"):
			shadow = true
		}
	}
	if !reserved || !typing || !shadow {
		t.Errorf("Missing expected warnings:\n%s", result.String())
	}
}

func TestValidatorUnknownAction(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextKeys, "z", Action("nope"))

	result := NewValidator().ValidateRegistry(r)
	if !result.HasErrors() {
		t.Error("Expected an error for an unknown action")
	}
}

func TestValidationResultString(t *testing.T) {
	empty := &ValidationResult{}
	if empty.String() != "No issues found" {
		t.Errorf("Unexpected summary %q", empty.String())
	}

	result := &ValidationResult{
		Errors: []ValidationError{{Type: "invalid", Context: ContextKeys, Key: "z", Message: "unknown action"}},
	}
	want := "Errors (1):\n  - [invalid] z in context 'keys': unknown action\n"
	if result.String() != want {
		t.Errorf("Expected %q, got %q", want, result.String())
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"a", false},
		{"ctrl+s", false},
		{"", true},
		{"ctrl+", true},
		{"alt+", true},
	}

	for _, tt := range tests {
		if err := ValidateKey(tt.key); (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestGetActionInfo(t *testing.T) {
	if info := GetActionInfo(ActionSave); info.Description != "Save container" {
		t.Errorf("Unexpected info %+v", info)
	}
	if info := GetActionInfo(Action("custom")); info.Category != "Unknown" {
		t.Errorf("Expected unknown category, got %+v", info)
	}
}
