package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// renderMRUModal renders the recently opened containers
func (m *Model) renderMRUModal() string {
	files := m.recentFiles()

	if len(files) == 0 {
		return m.renderModalWithFooter("Recent Files", "No recent files found (files may have been deleted)", "ESC: close", 60, 10)
	}

	cwd, _ := os.Getwd()

	var content strings.Builder
	for i, path := range files {
		displayPath := path
		if cwd != "" {
			if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
				displayPath = rel
			}
		}

		// Number prefix for the first 10 items (1-9, 0 for 10th)
		prefix := "   "
		if i < 9 {
			prefix = fmt.Sprintf("%d. ", i+1)
		} else if i == 9 {
			prefix = "0. "
		}

		if i == m.mruIndex {
			content.WriteString(styleSelected.Render(prefix+displayPath) + "\n")
		} else {
			content.WriteString("  " + prefix + displayPath + "\n")
		}
	}

	footer := "[↑/↓ j/k] navigate [1-9,0] quick select [enter] open [esc] close"
	return m.renderModalWithFooterAndScroll("Recent Files", content.String(), footer, 70, 18, m.mruIndex)
}
