package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/dbedit/internal/keybinds"
	"github.com/studiowebux/dbedit/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"} // Dark blue / Blue
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// paneLayout returns the key list width, the editor width and the inner
// height shared by both panes. MUST match renderMain.
func (m Model) paneLayout() (keysWidth, editorWidth, innerHeight int) {
	keysWidth = max(MinKeyListWidth, m.width*KeyListWidthPercent/100)
	if m.width < 80 {
		keysWidth = m.width / 2
	}
	editorWidth = m.width - keysWidth - 2*PaneBorderSize
	innerHeight = m.height - StatusBarLines - PaneBorderSize
	return keysWidth, editorWidth, innerHeight
}

// keyListPageSize is the number of keys visible at once
func (m Model) keyListPageSize() int {
	_, _, innerHeight := m.paneLayout()
	return max(1, innerHeight-KeyListHeaderLines)
}

// updateViewport resizes the editor and the modal viewports
func (m *Model) updateViewport() {
	_, editorWidth, innerHeight := m.paneLayout()
	m.editor.SetSize(editorWidth-2, innerHeight-EditorHeaderLines)

	m.helpView.Width = m.width - ModalWidthMarginNarrow - ViewportPaddingHorizontal
	m.helpView.Height = m.height - ModalHeightMarginMed - ModalOverheadLines - 2

	m.modalView.Width = m.width - ModalWidthMargin - ViewportPaddingHorizontal
	m.modalView.Height = m.height - ModalHeightMargin - ModalOverheadLines - 2
}

// renderMain renders the key list, the editor and the status bar
func (m Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	keysWidth, editorWidth, innerHeight := m.paneLayout()

	keysBorderColor := colorGray
	editorBorderColor := colorGray
	if m.focusedPanel == panelKeys {
		keysBorderColor = colorGreen
	} else {
		editorBorderColor = colorGreen
	}

	keysBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(keysBorderColor).
		Width(keysWidth).
		Height(innerHeight).
		Render(m.renderKeyList(keysWidth-2, innerHeight))

	editorBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(editorBorderColor).
		Width(editorWidth).
		Height(innerHeight).
		Render(m.renderEditorPane(editorWidth-2, innerHeight))

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		keysBox,
		editorBox,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderStatusBar(),
	)
}

// renderKeyList renders the key list pane
func (m Model) renderKeyList(width, height int) string {
	var lines []string

	title := "Keys"
	if query := m.keyList.FilterQuery(); query != "" {
		title = fmt.Sprintf("Keys /%s", query)
	}
	lines = append(lines, styleTitle.Render(title), "")

	if m.ctrl.Session().Empty() {
		lines = append(lines, styleSubtle.Render(m.emptyHint()))
		return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1).Render(strings.Join(lines, "\n"))
	}

	keys := m.keyList.Visible()
	active, hasActive := m.ctrl.Session().ActiveKey()
	dirty := m.ctrl.Session().Dirty()
	cursor := m.keyList.Index()

	offset := m.keyList.Offset()
	end := min(offset+m.keyListPageSize(), len(keys))

	for i := offset; i < end; i++ {
		key := keys[i]

		marker := "  "
		if hasActive && key == active {
			marker = "• "
			if dirty {
				marker = "● "
			}
		}

		maxLen := max(width-4, 4)
		name := key
		if len(name) > maxLen {
			name = name[:maxLen-3] + "..."
		}

		line := marker + name
		switch {
		case i == cursor && m.focusedPanel == panelKeys:
			line = styleSelected.Render(line)
		case hasActive && key == active:
			line = styleTitle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if len(keys) == 0 {
		lines = append(lines, styleWarning.Render("No matching keys"))
	} else {
		lines = append(lines, styleSubtle.Render(fmt.Sprintf("[%d/%d]", cursor+1, len(keys))))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m Model) emptyHint() string {
	return fmt.Sprintf("No container open\n\n%s: open file\n%s: recent files\n%s: help",
		m.keybinds.GetBindingString(keybinds.ContextKeys, keybinds.ActionOpenFile),
		m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionOpenRecent),
		m.keybinds.GetBindingString(keybinds.ContextKeys, keybinds.ActionOpenHelp))
}

// renderEditorPane renders the active key header and the textarea
func (m Model) renderEditorPane(width, height int) string {
	header := styleSubtle.Render("No key selected")
	if key, ok := m.ctrl.Session().ActiveKey(); ok {
		header = styleTitle.Render(key) + " " + styleSubtle.Render("["+m.editor.Kind().String()+"]")
		if m.editor.ReadOnly() {
			header += " " + styleSubtle.Render("read-only, "+
				m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionOpenEditor)+" to edit")
		}
		if m.ctrl.Session().Dirty() {
			header += " " + styleWarning.Render("modified")
		}
	}

	body := header + "\n\n" + m.editor.View()
	return lipgloss.NewStyle().
		MaxWidth(width).
		Height(height).
		Padding(0, 1).
		Render(body)
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	left := "dbedit"
	if name := m.ctrl.Name(); name != "" {
		left = fmt.Sprintf("dbedit: %s", name)
		if m.hasUnsavedChanges() {
			left += " *"
		}
		left += fmt.Sprintf(" (%d keys)", m.ctrl.Session().Len())
	}
	if m.staleOnDisk {
		left += " " + styleWarning.Render("[changed on disk]")
	}

	var right string
	switch {
	case m.mode == ModeFilter:
		right = "Filter: " + m.input.View()
	case m.loading:
		right = styleWarning.Render("Loading...")
	case m.saving:
		right = styleWarning.Render("Saving...")
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = statusStyle(m.statusLevel).Render(m.statusMsg)
	default:
		right = styleSubtle.Render(fmt.Sprintf("%s: save | %s: open | %s: help",
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionSave),
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionOpenFile),
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionOpenHelp)))
	}

	// Center spacing
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

func statusStyle(level types.Status) lipgloss.Style {
	switch level {
	case types.StatusSuccess:
		return styleSuccess
	case types.StatusWarning:
		return styleWarning
	case types.StatusError:
		return styleError
	}
	return lipgloss.NewStyle()
}
