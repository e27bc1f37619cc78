package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/content"
	"github.com/studiowebux/dbedit/internal/highlight"
	"github.com/studiowebux/dbedit/internal/keybinds"
	"github.com/studiowebux/dbedit/internal/query"
	"github.com/studiowebux/dbedit/internal/types"
	"github.com/studiowebux/dbedit/internal/watch"
)

// HistoryLimit is the number of save history entries shown
const HistoryLimit = 200

// openContainer starts loading path. The file I/O runs as a command and
// finishOpen applies the result.
func (m *Model) openContainer(path string) tea.Cmd {
	job, err := m.ctrl.BeginOpen(path)
	if err != nil {
		return m.flushNotices()
	}

	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		return openDoneMsg{res: job.Run(ctx)}
	}
}

func (m *Model) finishOpen(msg openDoneMsg) tea.Cmd {
	m.loading = false
	err := m.ctrl.FinishOpen(msg.res)
	notices := m.flushNotices()

	// A failed load leaves the previous container in place
	if err != nil && !errors.Is(err, types.ErrEmptyContainer) {
		return notices
	}

	m.keyList.SetKeys(m.ctrl.Session().Keys())
	m.focusKeys()
	m.modified = false
	m.staleOnDisk = false
	m.pendingChange = nil

	if err != nil {
		m.stopWatch()
		return notices
	}

	if m.recent != nil {
		if err := m.recent.Add(m.ctrl.Path()); err != nil {
			slog.Warn("Failed to update recent files", "err", err)
		}
	}

	return tea.Batch(notices, m.startWatch())
}

// reloadContainer loads the bound file again, dropping unsaved edits
func (m *Model) reloadContainer() tea.Cmd {
	path := m.ctrl.Path()
	if path == "" {
		// Reports that nothing is bound
		_ = m.ctrl.Reload(m.ctx)
		return m.flushNotices()
	}
	return m.openContainer(path)
}

// saveContainer starts writing every record back to the bound file
func (m *Model) saveContainer() tea.Cmd {
	job, err := m.ctrl.BeginSave()
	if err != nil {
		return m.flushNotices()
	}

	// The snapshot holds the editor text now, later typing is a new edit
	m.editor.MarkClean()
	m.modified = false
	m.saving = true

	ctx := m.ctx
	return func() tea.Msg {
		return saveDoneMsg{res: job.Run(ctx)}
	}
}

func (m *Model) finishSave(msg saveDoneMsg) tea.Cmd {
	m.saving = false
	err := m.ctrl.FinishSave(msg.res)
	cmds := []tea.Cmd{m.flushNotices()}

	if err != nil {
		m.modified = true
		m.quitAfterSave = false
		if m.mode == ModeConfirmQuit {
			m.mode = ModeNormal
		}
		return tea.Batch(cmds...)
	}

	m.staleOnDisk = false
	if m.pendingChange != nil {
		change := *m.pendingChange
		m.pendingChange = nil
		cmds = append(cmds, m.reportChange(change))
	}

	if m.quitAfterSave {
		return tea.Quit
	}
	if m.mode == ModeHistory {
		m.loadHistory()
	}
	return tea.Batch(cmds...)
}

// selectCurrentKey shows the key under the cursor in the editor
func (m *Model) selectCurrentKey() tea.Cmd {
	key, ok := m.keyList.Current()
	if !ok {
		return nil
	}

	if m.ctrl.Session().Dirty() {
		m.modified = true
	}
	if err := m.ctrl.Select(key); err != nil {
		return m.flushNotices()
	}
	return m.focusEditor()
}

func (m *Model) focusEditor() tea.Cmd {
	if _, ok := m.ctrl.Session().ActiveKey(); !ok {
		return m.setStatus(types.StatusWarning, "Select a key first")
	}
	m.focusedPanel = panelEditor
	return m.editor.Focus()
}

func (m *Model) focusKeys() {
	m.editor.Blur()
	m.focusedPanel = panelKeys
	m.keybinds.ClearMultiKeyState(keybinds.ContextKeys)
}

// revealActiveKey moves the cursor back onto the active key
func (m *Model) revealActiveKey() {
	if key, ok := m.ctrl.Session().ActiveKey(); ok {
		m.keyList.Reveal(key, m.keyListPageSize())
	}
}

// activeValue returns the active key and the editor text, unsaved edits included
func (m *Model) activeValue() (string, string, bool) {
	key, ok := m.ctrl.Session().ActiveKey()
	if !ok {
		return "", "", false
	}
	return key, m.editor.Content(), true
}

// hasUnsavedChanges reports edits not yet written to the file
func (m *Model) hasUnsavedChanges() bool {
	return m.modified || m.ctrl.Session().Dirty()
}

// requestQuit quits, asking first when there are unsaved changes
func (m *Model) requestQuit() tea.Cmd {
	if m.hasUnsavedChanges() && m.ctrl.Path() != "" {
		m.mode = ModeConfirmQuit
		return nil
	}
	return tea.Quit
}

// copyValue copies the active value to the clipboard
func (m *Model) copyValue() tea.Cmd {
	key, text, ok := m.activeValue()
	if !ok {
		return m.setStatus(types.StatusWarning, "Select a key first")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m.setStatus(types.StatusSuccess, fmt.Sprintf("Copied value of %s", key))
}

// editExternally opens the active value in the configured editor
func (m *Model) editExternally() tea.Cmd {
	key, text, ok := m.activeValue()
	if !ok {
		return m.setStatus(types.StatusWarning, "Select a key first")
	}

	ext := ".txt"
	if content.Detect(text) == content.Structured {
		ext = ".json"
	}
	f, err := os.CreateTemp("", "dbedit-*"+ext)
	if err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to create temp file: %v", err))
	}
	_, err = f.WriteString(text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return m.setErrorMessage(fmt.Sprintf("Failed to write temp file: %v", err))
	}

	path := f.Name()
	args := strings.Fields(m.settings.EditorCommand())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	// Use tea.ExecProcess to properly suspend/resume TUI
	c := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{key: key, path: path, err: err}
	})
}

func (m *Model) finishExternalEdit(msg editorDoneMsg) tea.Cmd {
	defer os.Remove(msg.path)

	if msg.err != nil {
		return m.setErrorMessage(fmt.Sprintf("Editor error: %v", msg.err))
	}
	if key, ok := m.ctrl.Session().ActiveKey(); !ok || key != msg.key {
		return m.setStatus(types.StatusWarning, "The active key changed, external edit discarded")
	}

	data, err := os.ReadFile(msg.path)
	if err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to read edited value: %v", err))
	}

	text := string(data)
	current := m.editor.Content()
	// Most editors add a final newline
	if !strings.HasSuffix(current, "\n") {
		text = strings.TrimSuffix(text, "\n")
	}
	if text == current {
		return m.setStatusMessage("No changes")
	}

	m.editor.Replace(text)
	return m.setStatusMessage(fmt.Sprintf("Updated %s from editor", msg.key))
}

// openPreview shows the active value with syntax highlighting
func (m *Model) openPreview() tea.Cmd {
	key, text, ok := m.activeValue()
	if !ok {
		return m.setStatus(types.StatusWarning, "Select a key first")
	}
	m.showPreview(key, text)
	return nil
}

func (m *Model) showPreview(title, text string) {
	m.previewTitle = title
	m.previewText = highlight.Render(content.DisplayForm(text), content.Detect(text))
	m.mode = ModePreview
	m.modalView.SetContent(m.previewText)
	m.modalView.GotoTop()
}

func (m *Model) openQueryPrompt() tea.Cmd {
	if _, _, ok := m.activeValue(); !ok {
		return m.setStatus(types.StatusWarning, "Select a key first")
	}
	m.mode = ModeQueryPrompt
	m.input.Placeholder = "JMESPath expression or $(shell command)"
	m.input.SetValue("")
	m.loadRecall()
	return m.input.Focus()
}

// loadRecall reads the saved queries for the query prompt
func (m *Model) loadRecall() {
	m.recall = nil
	m.recallIndex = -1
	if m.bookmarks == nil {
		return
	}
	exprs, err := m.bookmarks.Expressions()
	if err != nil {
		slog.Warn("Failed to load query bookmarks", "err", err)
		return
	}
	m.recall = exprs
}

// recallQuery fills the prompt with an older (delta 1) or newer (delta -1)
// saved query. Going past the newest one clears the prompt.
func (m *Model) recallQuery(delta int) {
	if len(m.recall) == 0 {
		return
	}
	m.recallIndex = clamp(m.recallIndex+delta, -1, len(m.recall)-1)
	if m.recallIndex < 0 {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.recall[m.recallIndex])
	m.input.CursorEnd()
}

// runQuery evaluates expr against the active value off the event loop
func (m *Model) runQuery(expr string) tea.Cmd {
	_, text, ok := m.activeValue()
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		result, err := query.Apply(ctx, text, expr)
		return queryDoneMsg{expr: expr, result: result, err: err}
	}
}

func (m *Model) finishQuery(msg queryDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.setErrorMessage(fmt.Sprintf("Query failed: %v", msg.err))
	}
	if m.bookmarks != nil {
		if _, err := m.bookmarks.Save(msg.expr); err != nil {
			slog.Warn("Failed to bookmark query", "expr", msg.expr, "err", err)
		}
	}
	m.showPreview("Query: "+msg.expr, msg.result)
	return nil
}

func (m *Model) openHelp() {
	m.updateHelpView()
	m.helpView.GotoTop()
	m.mode = ModeHelp
}

func (m *Model) openFilePrompt() tea.Cmd {
	m.mode = ModeOpenPrompt
	m.input.Placeholder = "path/to/container.db"
	m.input.SetValue("")
	if path := m.ctrl.Path(); path != "" {
		m.input.SetValue(filepath.Dir(path) + string(filepath.Separator))
		m.input.CursorEnd()
	}
	return m.input.Focus()
}

func (m *Model) openMRU() tea.Cmd {
	if m.recent == nil {
		return m.setStatus(types.StatusWarning, "Recent files are unavailable")
	}
	m.mruIndex = 0
	m.mode = ModeMRU
	return nil
}

// recentFiles returns the recent containers that still exist
func (m *Model) recentFiles() []string {
	if m.recent == nil {
		return nil
	}
	var files []string
	for _, f := range m.recent.List() {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	return files
}

func (m *Model) openRecent(path string) tea.Cmd {
	m.mode = ModeNormal
	return m.openContainer(path)
}

func (m *Model) openHistory() tea.Cmd {
	if m.history == nil {
		return m.setStatus(types.StatusWarning, "Save history is unavailable")
	}
	if err := m.loadHistory(); err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.historyState.SetIndex(0)
	m.historyState.SetConfirmClear(false)
	m.mode = ModeHistory
	return nil
}

func (m *Model) loadHistory() error {
	entries, err := m.history.List(HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	m.historyState.SetEntries(entries)
	return nil
}

func (m *Model) clearHistory() tea.Cmd {
	if err := m.history.Clear(); err != nil {
		m.historyState.SetConfirmClear(false)
		return m.setErrorMessage(fmt.Sprintf("Failed to clear history: %v", err))
	}
	m.historyState.Clear()
	return m.setStatus(types.StatusSuccess, "History cleared")
}

// startWatch watches the bound file for changes made by other programs
func (m *Model) startWatch() tea.Cmd {
	m.stopWatch()

	path := m.ctrl.Path()
	if !m.settings.Watch || path == "" {
		return nil
	}

	w, err := watch.New(m.ctx, path, watch.DefaultDebounce)
	if err != nil {
		slog.Warn("File watch disabled", "path", path, "err", err)
		return nil
	}
	m.watcher = w
	return waitForChange(w)
}

func (m *Model) stopWatch() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		slog.Warn("Failed to stop watcher", "err", err)
	}
	m.watcher = nil
}

// waitForChange delivers the next change of w as a message
func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return changeMsg{watcher: w, change: change}
	}
}

func (m *Model) handleChange(msg changeMsg) tea.Cmd {
	// From a watcher that was replaced
	if m.watcher == nil || msg.watcher != m.watcher {
		return nil
	}

	next := waitForChange(msg.watcher)
	if m.saving {
		// Judged once the save reports its fingerprint
		change := msg.change
		m.pendingChange = &change
		return next
	}
	return tea.Batch(next, m.reportChange(msg.change))
}

// reportChange warns about changes that our own saves did not produce
func (m *Model) reportChange(change watch.Change) tea.Cmd {
	name := m.ctrl.Name()
	if change.Removed {
		m.staleOnDisk = true
		return m.setStatus(types.StatusWarning, fmt.Sprintf("%s was removed from disk, saving writes it again", name))
	}
	if change.Sum == m.ctrl.Fingerprint() {
		return nil
	}

	m.staleOnDisk = true
	slog.Info("Container changed on disk", "path", change.Path)
	return m.setStatus(types.StatusWarning, fmt.Sprintf("%s changed on disk, %s reloads it",
		name, m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionReload)))
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
