package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin       = 6  // Standard horizontal margin (m.width - 6)
	ModalHeightMargin      = 3  // Standard vertical margin (m.height - 3)
	ModalWidthMarginNarrow = 10 // Narrow horizontal margin for focused modals (m.width - 10)
	ModalHeightMarginSmall = 2  // Small vertical margin (m.height - 2)
	ModalHeightMarginMed   = 4  // Medium vertical margin (m.height - 4)

	// Viewport Padding and Borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)

	// Modal Content Calculations
	ModalOverheadLines   = 6 // Title (2) + padding (2) + border (2)
	ModalOverheadMinimal = 4 // Border + title for minimal modals

	// Main view
	StatusBarLines      = 1  // Status bar below the panes
	PaneBorderSize      = 2  // Border lines of a pane
	KeyListHeaderLines  = 4  // Title, blank line, footer blank line, footer
	EditorHeaderLines   = 2  // Key title and blank line above the textarea
	MinKeyListWidth     = 24 // Key list never gets narrower
	KeyListWidthPercent = 30 // Share of the width given to the key list

	// Messages
	MaxFooterMessageLength = 100

	// Prompt modal size
	PromptModalWidth  = 70
	PromptModalHeight = 9
)
