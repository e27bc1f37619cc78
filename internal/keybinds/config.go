package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps a key to an action name; "none" unbinds the key.
// The file may contain comments and trailing commas.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Keys    map[string]string `json:"keys,omitempty"`
	Editor  map[string]string `json:"editor,omitempty"`
	Prompt  map[string]string `json:"prompt,omitempty"`
	Viewer  map[string]string `json:"viewer,omitempty"`
}

// unbind is the action name that removes a default binding
const unbind = "none"

// LoadConfig loads keybinding configuration from a JSONC file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses JSON with comments into a Config
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal: c.Global,
		ContextKeys:   c.Keys,
		ContextEditor: c.Editor,
		ContextPrompt: c.Prompt,
		ContextViewer: c.Viewer,
	}
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	var errs []error
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			key = strings.TrimSpace(key)
			if err := ValidateKey(key); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", context, err))
				continue
			}
			if actionStr == unbind {
				registry.Unregister(context, key)
				continue
			}
			if err := ValidateAction(actionStr); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", context, key, err))
				continue
			}
			registry.Register(context, key, Action(actionStr))
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return registry, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return registry, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportRegistry converts a registry to a config, for writing an example file
func ExportRegistry(registry *Registry) *Config {
	config := &Config{Version: "1.0"}
	sections := map[Context]*map[string]string{
		ContextGlobal: &config.Global,
		ContextKeys:   &config.Keys,
		ContextEditor: &config.Editor,
		ContextPrompt: &config.Prompt,
		ContextViewer: &config.Viewer,
	}
	for context, section := range sections {
		for _, b := range registry.ListBindings(context) {
			if *section == nil {
				*section = make(map[string]string)
			}
			(*section)[b.Key] = string(b.Action)
		}
	}
	return config
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string, perm os.FileMode) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
