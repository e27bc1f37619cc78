package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/types"
)

// renderHistoryModal renders the save journal, newest first
func (m *Model) renderHistoryModal() string {
	width := m.width - ModalWidthMargin
	height := m.height - ModalHeightMargin

	if m.historyState.ConfirmingClear() {
		content := styleWarning.Render("Delete all save history entries?")
		return m.renderModalWithFooter("Clear History", content, "y: clear | n/ESC: cancel", 60, 10)
	}

	entries := m.historyState.GetEntries()
	if len(entries) == 0 {
		return m.renderModalWithFooter("Save History", "No saves recorded yet", "ESC: close", 60, 10)
	}

	index := m.historyState.GetIndex()

	var content strings.Builder
	for i, entry := range entries {
		line := formatHistoryLine(entry)
		if i == index {
			content.WriteString(styleSelected.Render(line) + "\n")
		} else {
			content.WriteString(line + "\n")
		}
	}

	// Details of the entry under the cursor
	if entry, ok := m.historyState.GetCurrentEntry(); ok {
		content.WriteString("\n" + styleSubtle.Render(entry.ContainerPath))
		if entry.Error != "" {
			content.WriteString("\n" + styleError.Render(entry.Error))
		}
	}

	footer := fmt.Sprintf("↑/↓ j/k: navigate | Enter: open container | C: clear all | ESC/q: close [%d/%d]", index+1, len(entries))
	return m.renderModalWithFooterAndScroll("Save History", content.String(), footer, width, height, index)
}

func formatHistoryLine(entry types.SaveEntry) string {
	status := string(entry.Status)
	switch entry.Status {
	case types.StatusSuccess:
		status = styleSuccess.Render(fmt.Sprintf("%-7s", status))
	case types.StatusWarning:
		status = styleWarning.Render(fmt.Sprintf("%-7s", status))
	default:
		status = styleError.Render(fmt.Sprintf("%-7s", status))
	}

	duration := time.Duration(entry.DurationMs) * time.Millisecond
	return fmt.Sprintf("%s  %s  %-24s %5d records %9s %8s",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		status,
		filepath.Base(entry.ContainerPath),
		entry.RecordCount,
		history.FormatSize(entry.BytesWritten),
		duration)
}
