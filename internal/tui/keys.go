package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/dbedit/internal/keybinds"
	"github.com/studiowebux/dbedit/internal/types"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Force quit works in all modes
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		return tea.Quit
	}

	switch m.mode {
	case ModeNormal:
		if m.focusedPanel == panelEditor {
			return m.handleEditorKeys(msg)
		}
		return m.handleKeyListKeys(msg)
	case ModeFilter:
		return m.handleFilterKeys(msg)
	case ModeOpenPrompt, ModeQueryPrompt:
		return m.handlePromptKeys(msg)
	case ModeHelp:
		return m.handleViewerKeys(msg, &m.helpView)
	case ModePreview:
		return m.handleViewerKeys(msg, &m.modalView)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	case ModeMRU:
		return m.handleMRUKeys(msg)
	case ModeConfirmQuit:
		return m.handleConfirmQuitKeys(msg)
	}

	return nil
}

// handleKeyListKeys handles keys while the key list is focused
func (m *Model) handleKeyListKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextKeys, msg.String())
	if partial {
		// This is a partial match (e.g., first 'g' in 'gg' sequence)
		return nil
	}
	if !ok {
		return nil
	}

	pageSize := m.keyListPageSize()

	switch action {
	case keybinds.ActionNavigateUp:
		m.keyList.Navigate(-1, pageSize)

	case keybinds.ActionNavigateDown:
		m.keyList.Navigate(1, pageSize)

	case keybinds.ActionPageUp:
		m.keyList.Page(-pageSize, pageSize)

	case keybinds.ActionPageDown:
		m.keyList.Page(pageSize, pageSize)

	case keybinds.ActionGoToTop:
		m.keyList.Top()

	case keybinds.ActionGoToBottom:
		m.keyList.Bottom(pageSize)

	case keybinds.ActionSelectKey:
		return m.selectCurrentKey()

	case keybinds.ActionSwitchFocus:
		return m.focusEditor()

	case keybinds.ActionOpenFilter:
		m.mode = ModeFilter
		m.input.Placeholder = "fuzzy filter"
		m.input.SetValue(m.keyList.FilterQuery())
		m.input.CursorEnd()
		return m.input.Focus()

	case keybinds.ActionClearFilter:
		if m.keyList.FilterQuery() != "" {
			m.keyList.Filter("")
			m.revealActiveKey()
		}

	default:
		return m.handleGlobalAction(action)
	}

	return nil
}

// handleEditorKeys handles keys while the value editor is focused.
// Keys without a binding are typed into the editor.
func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextEditor, msg.String())
	if !ok {
		if m.editor.ReadOnly() {
			return m.setStatus(types.StatusWarning, fmt.Sprintf("Value has tabs or control characters, press %s to edit it",
				m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionOpenEditor)))
		}
		return m.editor.Update(msg)
	}

	switch action {
	case keybinds.ActionSwitchFocus:
		m.focusKeys()
		return nil
	default:
		return m.handleGlobalAction(action)
	}
}

// handleGlobalAction runs the actions available from both panes
func (m *Model) handleGlobalAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit:
		return m.requestQuit()
	case keybinds.ActionQuitForce:
		return tea.Quit
	case keybinds.ActionSave:
		return m.saveContainer()
	case keybinds.ActionReload:
		return m.reloadContainer()
	case keybinds.ActionOpenHelp:
		m.openHelp()
	case keybinds.ActionOpenFile:
		return m.openFilePrompt()
	case keybinds.ActionOpenRecent:
		return m.openMRU()
	case keybinds.ActionOpenHistory:
		return m.openHistory()
	case keybinds.ActionCopyValue:
		return m.copyValue()
	case keybinds.ActionOpenEditor:
		return m.editExternally()
	case keybinds.ActionOpenPreview:
		return m.openPreview()
	case keybinds.ActionOpenQuery:
		return m.openQueryPrompt()
	}
	return nil
}

// handleFilterKeys narrows the key list while typing
func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextPrompt, msg.String()); ok {
		switch action {
		case keybinds.ActionTextSubmit:
			m.mode = ModeNormal
			m.input.Blur()
			if m.keyList.FilterQuery() == "" {
				return nil
			}
			return m.setStatusMessage(fmt.Sprintf("%d of %d keys match %q",
				len(m.keyList.Visible()), m.keyList.Total(), m.keyList.FilterQuery()))
		case keybinds.ActionTextCancel:
			m.mode = ModeNormal
			m.input.Blur()
			m.keyList.Filter("")
			m.revealActiveKey()
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.keyList.Filter(m.input.Value())
	return cmd
}

// handlePromptKeys handles the open and query prompts
func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextPrompt, msg.String()); ok {
		switch action {
		case keybinds.ActionTextSubmit:
			value := strings.TrimSpace(m.input.Value())
			mode := m.mode
			m.mode = ModeNormal
			m.input.Blur()
			if value == "" {
				return nil
			}
			if mode == ModeOpenPrompt {
				return m.openContainer(expandHome(value))
			}
			return m.runQuery(value)
		case keybinds.ActionTextCancel:
			m.mode = ModeNormal
			m.input.Blur()
		case keybinds.ActionRecallPrev:
			if m.mode == ModeQueryPrompt {
				m.recallQuery(1)
			}
		case keybinds.ActionRecallNext:
			if m.mode == ModeQueryPrompt {
				m.recallQuery(-1)
			}
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// handleViewerKeys scrolls a read-only modal
func (m *Model) handleViewerKeys(msg tea.KeyMsg, view *viewport.Model) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextViewer, msg.String())
	if partial || !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		view.ScrollUp(1)
	case keybinds.ActionNavigateDown:
		view.ScrollDown(1)
	case keybinds.ActionPageUp:
		view.PageUp()
	case keybinds.ActionPageDown:
		view.PageDown()
	case keybinds.ActionGoToTop:
		view.GotoTop()
	case keybinds.ActionGoToBottom:
		view.GotoBottom()
	case keybinds.ActionOpenHelp:
		if m.mode == ModeHelp {
			m.mode = ModeNormal
		}
	}
	return nil
}

// handleHistoryKeys handles keyboard input in the save history modal
func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	if m.historyState.ConfirmingClear() {
		switch msg.String() {
		case "y", "Y":
			return m.clearHistory()
		case "n", "N", "esc":
			m.historyState.SetConfirmClear(false)
		}
		return nil
	}

	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextViewer, msg.String())
	if partial || !ok {
		return nil
	}

	entries := m.historyState.GetEntries()

	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.historyState.Navigate(-1)
	case keybinds.ActionNavigateDown:
		m.historyState.Navigate(1)
	case keybinds.ActionPageUp:
		m.historyState.SetIndex(m.historyState.GetIndex() - m.modalView.Height)
	case keybinds.ActionPageDown:
		m.historyState.SetIndex(m.historyState.GetIndex() + m.modalView.Height)
	case keybinds.ActionGoToTop:
		m.historyState.SetIndex(0)
	case keybinds.ActionGoToBottom:
		m.historyState.SetIndex(len(entries) - 1)
	case keybinds.ActionHistoryClear:
		if len(entries) > 0 {
			m.historyState.SetConfirmClear(true)
		}
	case keybinds.ActionConfirm:
		entry, ok := m.historyState.GetCurrentEntry()
		if !ok {
			return nil
		}
		m.mode = ModeNormal
		return m.openContainer(entry.ContainerPath)
	}
	return nil
}

// handleMRUKeys handles keyboard input in MRU mode
func (m *Model) handleMRUKeys(msg tea.KeyMsg) tea.Cmd {
	files := m.recentFiles()

	// Quick select by number (1-9, 0 for the 10th)
	if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		index := int(s[0]-'0') - 1
		if s == "0" {
			index = 9
		}
		if index < len(files) {
			m.mruIndex = index
			return m.openRecent(files[index])
		}
		return nil
	}

	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextViewer, msg.String())
	if partial || !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		if len(files) > 0 {
			m.mruIndex = (m.mruIndex - 1 + len(files)) % len(files)
		}
	case keybinds.ActionNavigateDown:
		if len(files) > 0 {
			m.mruIndex = (m.mruIndex + 1) % len(files)
		}
	case keybinds.ActionGoToTop:
		m.mruIndex = 0
	case keybinds.ActionGoToBottom:
		if len(files) > 0 {
			m.mruIndex = len(files) - 1
		}
	case keybinds.ActionConfirm:
		if m.mruIndex < len(files) {
			return m.openRecent(files[m.mruIndex])
		}
	}
	return nil
}

// handleConfirmQuitKeys asks what to do with unsaved changes
func (m *Model) handleConfirmQuitKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.quitAfterSave = true
		cmd := m.saveContainer()
		if !m.saving {
			m.quitAfterSave = false
			m.mode = ModeNormal
		}
		return cmd
	case "n", "N":
		return tea.Quit
	case "esc":
		m.mode = ModeNormal
		return m.setStatus(types.StatusInfo, "Quit cancelled")
	}
	return nil
}
