package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/dbedit/internal/store"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// LocalSettingsFile overrides the global settings when present in the working directory
	LocalSettingsFile = ".dbedit.yaml"
)

var (
	// ConfigDir is the global configuration directory (~/.dbedit)
	ConfigDir string

	// DatabasePath is the SQLite database file for the save journal
	DatabasePath string

	// RecentFile stores the recently opened containers
	RecentFile string

	// SettingsFile is the global settings file
	SettingsFile string

	// KeybindsFile holds user key binding overrides
	KeybindsFile string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

// Settings are the user-tunable options
type Settings struct {
	Table          string   `yaml:"table"`
	KeyColumn      string   `yaml:"key_column"`
	ValueColumn    string   `yaml:"value_column"`
	Extensions     []string `yaml:"extensions"`
	Editor         string   `yaml:"editor"`
	MessageTimeout int      `yaml:"message_timeout"`
	Watch          bool     `yaml:"watch"`
	LogLevel       string   `yaml:"log_level"`
}

// DefaultSettings returns the settings used when no file overrides them
func DefaultSettings() Settings {
	return Settings{
		Table:          store.DefaultSchema.Table,
		KeyColumn:      store.DefaultSchema.KeyColumn,
		ValueColumn:    store.DefaultSchema.ValueColumn,
		Extensions:     []string{".db", ".sqlite", ".sqlite3"},
		MessageTimeout: 5,
		Watch:          true,
		LogLevel:       "info",
	}
}

// Initialize sets up the configuration directory and files
// It creates ~/.dbedit/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".dbedit"))
}

// InitializeAt is Initialize with an explicit configuration directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "dbedit.db")
	RecentFile = filepath.Join(ConfigDir, "recent.json")
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "dbedit.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		data, err := yaml.Marshal(DefaultSettings())
		if err != nil {
			return fmt.Errorf("failed to encode default settings: %w", err)
		}
		if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// GetSettingsFilePath returns the settings file path (local or global)
func GetSettingsFilePath() string {
	if _, err := os.Stat(LocalSettingsFile); err == nil {
		return LocalSettingsFile
	}
	return SettingsFile
}

// LoadSettings reads the local or global settings file
func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(GetSettingsFilePath())
}

// LoadSettingsFrom reads settings from path. Missing keys keep their defaults
// and a missing file yields the defaults.
func LoadSettingsFrom(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return settings, settings.Validate()
}

// Validate checks the settings for values the application cannot use
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Table) == "" {
		return errors.New("settings: table must not be empty")
	}
	if strings.TrimSpace(s.KeyColumn) == "" || strings.TrimSpace(s.ValueColumn) == "" {
		return errors.New("settings: key_column and value_column must not be empty")
	}
	if s.MessageTimeout < 0 {
		return fmt.Errorf("settings: message_timeout must not be negative, got %d", s.MessageTimeout)
	}
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("settings: unknown log_level %q", s.LogLevel)
	}
	return nil
}

// Schema returns the table layout the store reads
func (s Settings) Schema() store.Schema {
	return store.Schema{
		Table:       s.Table,
		KeyColumn:   s.KeyColumn,
		ValueColumn: s.ValueColumn,
	}
}

// Accepts reports whether path carries one of the accepted extensions.
// An empty extension list accepts everything.
func (s Settings) Accepts(path string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(s.Extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// EditorCommand returns the external editor to launch
func (s Settings) EditorCommand() string {
	if s.Editor != "" {
		return s.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
