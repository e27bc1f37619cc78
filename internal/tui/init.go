package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/bookmarks"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/controller"
	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/keybinds"
	"github.com/studiowebux/dbedit/internal/logging"
	"github.com/studiowebux/dbedit/internal/recent"
)

// Options are the collaborators of the TUI. Nil managers disable the
// matching feature.
type Options struct {
	Settings  config.Settings
	Keybinds  *keybinds.Registry
	Recent    *recent.Manager
	History   *history.Manager
	Bookmarks *bookmarks.Manager
}

// New creates a new TUI model
func New(opts Options) (Model, error) {
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}

	editor := newEditorSurface()
	notices := &noticeQueue{}

	ctrlOpts := controller.Options{
		Schema:   opts.Settings.Schema(),
		Accepts:  opts.Settings.Accepts,
		Notifier: notices,
	}
	if opts.History != nil {
		ctrlOpts.Journal = opts.History
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 0

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		ctrl:         controller.New(editor, ctrlOpts),
		editor:       editor,
		notices:      notices,
		keybinds:     opts.Keybinds,
		recent:       opts.Recent,
		history:      opts.History,
		bookmarks:    opts.Bookmarks,
		settings:     opts.Settings,
		ctx:          ctx,
		cancel:       cancel,
		mode:         ModeNormal,
		focusedPanel: panelKeys,
		keyList:      NewKeyListState(),
		historyState: NewHistoryState(),
		input:        input,
		helpView:     viewport.New(80, 20),
		modalView:    viewport.New(80, 20),
	}

	return m, nil
}

// Run starts the TUI, opening path first when it is not empty
func Run(settings config.Settings, path string) error {
	closeLog, err := logging.SetupFile(config.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		slog.Warn("Using default key bindings", "err", err)
	}
	if result := keybinds.NewValidator().ValidateRegistry(registry); result.HasWarnings() || result.HasErrors() {
		slog.Warn("Key binding problems", "report", result.String())
	}

	mru := recent.NewManager(config.RecentFile)
	if err := mru.Load(); err != nil {
		slog.Warn("Failed to load recent files", "err", err)
	}

	hist, err := history.NewManager(config.DatabasePath)
	if err != nil {
		slog.Warn("Save history disabled", "err", err)
		hist = nil
	}

	marks, err := bookmarks.NewManager(config.DatabasePath)
	if err != nil {
		slog.Warn("Query bookmarks disabled", "err", err)
		marks = nil
	}

	m, err := New(Options{
		Settings:  settings,
		Keybinds:  registry,
		Recent:    mru,
		History:   hist,
		Bookmarks: marks,
	})
	if err != nil {
		return err
	}
	defer m.Cleanup()

	// Start TUI (pass pointer since Update uses pointer receiver)
	p := tea.NewProgram(&startModel{Model: &m, path: path}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

// startModel opens the file given on the command line once the program runs
type startModel struct {
	*Model
	path string
}

func (s *startModel) Init() tea.Cmd {
	if s.path == "" {
		return nil
	}
	return s.openContainer(s.path)
}
