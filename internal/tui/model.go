package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/bookmarks"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/controller"
	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/keybinds"
	"github.com/studiowebux/dbedit/internal/recent"
	"github.com/studiowebux/dbedit/internal/types"
	"github.com/studiowebux/dbedit/internal/watch"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeOpenPrompt
	ModeQueryPrompt
	ModeHelp
	ModePreview
	ModeHistory
	ModeMRU
	ModeConfirmQuit
)

// Panel names
const (
	panelKeys   = "keys"
	panelEditor = "editor"
)

// Model represents the TUI state
type Model struct {
	ctrl      *controller.Controller
	editor    *editorSurface
	notices   *noticeQueue
	keybinds  *keybinds.Registry
	recent    *recent.Manager
	history   *history.Manager
	bookmarks *bookmarks.Manager
	settings  config.Settings

	ctx    context.Context
	cancel context.CancelFunc

	watcher       *watch.Watcher
	pendingChange *watch.Change // Change seen while our own save was in flight

	mode         Mode
	focusedPanel string

	keyList      *KeyListState
	historyState *HistoryState
	mruIndex     int

	input textinput.Model // Shared by the filter, open and query prompts

	recall      []string // Saved queries, newest first
	recallIndex int      // -1 while typing a new query

	helpView     viewport.Model
	modalView    viewport.Model
	previewTitle string
	previewText  string

	loading       bool
	saving        bool
	modified      bool // Records changed since the last load or save
	quitAfterSave bool
	staleOnDisk   bool // The container changed outside this program

	statusMsg     string
	statusLevel   types.Status
	fullStatusMsg string
	errorMsg      string
	fullErrorMsg  string

	width  int
	height int
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cleanup stops the watcher and closes the open container and databases
func (m *Model) Cleanup() {
	m.stopWatch()
	if err := m.ctrl.Close(); err != nil {
		slog.Warn("Failed to close container", "err", err)
	}
	if m.history != nil {
		if err := m.history.Close(); err != nil {
			slog.Warn("Failed to close history database", "err", err)
		}
	}
	if m.bookmarks != nil {
		if err := m.bookmarks.Close(); err != nil {
			slog.Warn("Failed to close bookmarks database", "err", err)
		}
	}
	m.cancel()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()

	case openDoneMsg:
		cmd = m.finishOpen(msg)

	case saveDoneMsg:
		cmd = m.finishSave(msg)

	case changeMsg:
		cmd = m.handleChange(msg)

	case editorDoneMsg:
		cmd = m.finishExternalEdit(msg)

	case queryDoneMsg:
		cmd = m.finishQuery(msg)

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))

	default:
		// Cursor blink and other textarea internals
		if m.focusedPanel == panelEditor && m.mode == ModeNormal {
			cmd = m.editor.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModePreview:
		return m.renderPreview()
	case ModeHistory:
		return m.renderHistoryModal()
	case ModeMRU:
		return m.renderMRUModal()
	case ModeOpenPrompt, ModeQueryPrompt:
		return m.renderPromptModal()
	case ModeConfirmQuit:
		return m.renderConfirmQuitModal()
	default:
		return m.renderMain()
	}
}

// Custom message types
type openDoneMsg struct {
	res *controller.OpenResult
}

type saveDoneMsg struct {
	res *controller.SaveResult
}

type changeMsg struct {
	watcher *watch.Watcher
	change  watch.Change
}

type editorDoneMsg struct {
	key  string
	path string
	err  error
}

type queryDoneMsg struct {
	expr   string
	result string
	err    error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

// noticeQueue collects controller notifications until Update turns them
// into status bar messages
type noticeQueue struct {
	items []types.Notification
}

func (q *noticeQueue) Notify(n types.Notification) {
	q.items = append(q.items, n)
}

func (q *noticeQueue) drain() []types.Notification {
	items := q.items
	q.items = nil
	return items
}

// flushNotices shows queued notifications in order
func (m *Model) flushNotices() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.notices.drain() {
		if n.Status == types.StatusError {
			cmds = append(cmds, m.setErrorMessage(n.Message))
			continue
		}
		cmds = append(cmds, m.setStatus(n.Status, n.Message))
	}
	return tea.Batch(cmds...)
}

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	return m.setStatus(types.StatusInfo, msg)
}

func (m *Model) setStatus(level types.Status, msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusLevel = level
	m.statusMsg = truncateMessage(msg)
	m.errorMsg = ""
	return m.clearAfter(clearStatusMsg{})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncateMessage(msg)
	return m.clearAfter(clearErrorMsg{})
}

func (m *Model) clearAfter(msg tea.Msg) tea.Cmd {
	if m.settings.MessageTimeout <= 0 {
		return nil
	}
	timeout := time.Duration(m.settings.MessageTimeout) * time.Second
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return msg
	})
}

// truncateMessage shortens a message for the footer (max 100 chars)
func truncateMessage(msg string) string {
	if len(msg) > MaxFooterMessageLength {
		return msg[:MaxFooterMessageLength-3] + "..."
	}
	return msg
}
