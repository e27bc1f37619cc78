package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/dbedit/internal/keybinds"
)

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	title := styleTitle.Render("Keyboard Shortcuts")
	footer := "↑/↓ j/k: scroll | g/G: top/bottom | ESC/q: close"

	// Footer is outside the viewport so it stays visible
	fullContent := title + "\n\n" + m.helpView.View() + "\n\n" + styleSubtle.Render(footer)

	helpView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMarginNarrow).
		Height(m.height - ModalHeightMarginMed).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpView,
	)
}

// updateHelpView lists the bindings of every context from the registry,
// so user overrides show up
func (m *Model) updateHelpView() {
	var b strings.Builder

	for _, context := range keybinds.AllContexts {
		bindings := m.keybinds.ListBindings(context)
		if len(bindings) == 0 {
			continue
		}

		b.WriteString(styleTitle.Render(contextTitle(context)) + "\n")

		// Group keys by action, keeping the sorted action order
		var actions []keybinds.Action
		keys := make(map[keybinds.Action][]string)
		for _, binding := range bindings {
			if binding.Action == keybinds.ActionNoOp || binding.Action == keybinds.ActionGoToTopPrepare {
				continue
			}
			if _, seen := keys[binding.Action]; !seen {
				actions = append(actions, binding.Action)
			}
			keys[binding.Action] = append(keys[binding.Action], binding.Key)
		}

		for _, action := range actions {
			info := keybinds.GetActionInfo(action)
			b.WriteString(fmt.Sprintf("  %-20s %s\n", strings.Join(keys[action], "/"), info.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(styleSubtle.Render("Structured values are shown indented and stored compact.\n"))
	b.WriteString(styleSubtle.Render("Selecting another key keeps the edit; saving writes every record.\n"))

	m.helpView.SetContent(b.String())
}

func contextTitle(context keybinds.Context) string {
	switch context {
	case keybinds.ContextGlobal:
		return "Everywhere"
	case keybinds.ContextKeys:
		return "Key list"
	case keybinds.ContextEditor:
		return "Editor"
	case keybinds.ContextPrompt:
		return "Prompts"
	case keybinds.ContextViewer:
		return "Viewers"
	}
	return string(context)
}

// renderPreview renders the highlighted value or query result
func (m Model) renderPreview() string {
	footer := styleSubtle.Render("↑/↓ j/k: scroll | PgUp/PgDn: page | g/G: top/bottom | ESC/q: close")
	fullContent := styleTitle.Render(m.previewTitle) + "\n\n" + m.modalView.View() + "\n\n" + footer

	previewView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMargin).
		Height(m.height - ModalHeightMargin).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		previewView,
	)
}

// renderPromptModal renders the open and query prompts
func (m *Model) renderPromptModal() string {
	title := "Open Container"
	hint := "Path of a SQLite container"
	if m.mode == ModeQueryPrompt {
		title = "Query Value"
		hint = "JMESPath, e.g. items[0].name, or $(jq .items) to pipe through a command"
	}

	content := styleSubtle.Render(hint) + "\n\n" + m.input.View()
	if m.errorMsg != "" {
		content += "\n\n" + styleError.Render(m.errorMsg)
	}
	footer := "Enter: submit | ESC: cancel"
	if m.mode == ModeQueryPrompt && len(m.recall) > 0 {
		footer = fmt.Sprintf("Enter: submit | ↑/↓: saved queries (%d) | ESC: cancel", len(m.recall))
	}
	return m.renderModalWithFooter(title, content, footer, PromptModalWidth, PromptModalHeight+2)
}

// renderConfirmQuitModal asks before dropping unsaved changes
func (m *Model) renderConfirmQuitModal() string {
	content := fmt.Sprintf("%s has unsaved changes.\n\n%s",
		m.ctrl.Name(),
		styleWarning.Render("Save before quitting?"))
	return m.renderModalWithFooter("Unsaved Changes", content, "y: save and quit | n: quit without saving | ESC: cancel", 60, 10)
}

// renderModalWithFooter renders a modal dialog with scrollable content and a fixed footer
func (m *Model) renderModalWithFooter(title, content, footer string, width, height int) string {
	return m.renderModalWithFooterAndScroll(title, content, footer, width, height, -1)
}

// renderModalWithFooterAndScroll renders a modal with footer and auto-scrolls to keep selectedLine visible
// Pass selectedLine=-1 to preserve existing scroll position
func (m *Model) renderModalWithFooterAndScroll(title, content, footer string, width, height, selectedLine int) string {
	maxWidth := m.width - ViewportPaddingHorizontal
	maxHeight := m.height - ModalHeightMarginSmall

	width = min(width, maxWidth)
	height = min(height, maxHeight)

	// Ensure minimum reasonable size (but allow small for tiny terminals)
	if width < 30 && m.width >= 30 {
		width = 30
	}
	if height < 8 && m.height >= 8 {
		height = 8
	}

	footerLines := 0
	if footer != "" {
		footerLines = 2
	}
	contentHeight := height - ModalOverheadLines - footerLines
	if contentHeight < 1 {
		contentHeight = max(1, height-ModalOverheadMinimal-footerLines)
	}

	m.modalView.Width = max(10, width-ViewportPaddingHorizontal)
	m.modalView.Height = contentHeight

	// Save scroll before SetContent resets it
	savedOffset := m.modalView.YOffset
	m.modalView.SetContent(content)

	if selectedLine >= 0 && m.modalView.Height > 0 {
		topVisible := savedOffset
		bottomVisible := savedOffset + m.modalView.Height - 1

		switch {
		case selectedLine < topVisible:
			m.modalView.SetYOffset(selectedLine)
		case selectedLine > bottomVisible:
			m.modalView.SetYOffset(selectedLine - m.modalView.Height + 1)
		default:
			m.modalView.SetYOffset(savedOffset)
		}
	} else {
		m.modalView.SetYOffset(savedOffset)
	}

	fullContent := styleTitle.Render(title) + "\n\n" + m.modalView.View()
	if footer != "" {
		fullContent += "\n\n" + styleSubtle.Render(footer)
	}

	modalBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(fullContent)

	// Modal is full screen or nearly full screen
	if width >= m.width-2 || height >= m.height-1 {
		return modalBox
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modalBox,
	)
}
