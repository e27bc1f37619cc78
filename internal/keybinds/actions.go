package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal Context = "global" // Available everywhere
	ContextKeys   Context = "keys"   // Key list focused
	ContextEditor Context = "editor" // Value editor focused
	ContextPrompt Context = "prompt" // Single line input (open, filter, query)
	ContextViewer Context = "viewer" // Scrollable modal (help, preview, history, recent)
)

// AllContexts lists the contexts in help display order
var AllContexts = []Context{ContextGlobal, ContextKeys, ContextEditor, ContextPrompt, ContextViewer}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Quit even with unsaved edits
	ActionSave      Action = "save"       // Save container
	ActionReload    Action = "reload"     // Reload container from disk
	ActionOpenHelp  Action = "open_help"  // Open help viewer

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionPageUp         Action = "page_up"           // Move up one page
	ActionPageDown       Action = "page_down"         // Move down one page
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Focus
	ActionSwitchFocus Action = "switch_focus" // Switch focus between key list and editor

	// Key list actions
	ActionSelectKey   Action = "select_key"   // Show the key under the cursor in the editor
	ActionOpenFilter  Action = "open_filter"  // Fuzzy filter the key list
	ActionClearFilter Action = "clear_filter" // Drop the active filter

	// Value actions
	ActionCopyValue   Action = "copy_value"   // Copy the active value to the clipboard
	ActionOpenEditor  Action = "open_editor"  // Edit the active value in an external editor
	ActionOpenPreview Action = "open_preview" // Highlighted preview of the active value
	ActionOpenQuery   Action = "open_query"   // Query the active value

	// Modal launchers
	ActionOpenFile    Action = "open_file"    // Prompt for a container path
	ActionOpenRecent  Action = "open_recent"  // Open MRU list
	ActionOpenHistory Action = "open_history" // Open save history

	// Prompt actions
	ActionTextSubmit Action = "text_submit" // Submit text input
	ActionTextCancel Action = "text_cancel" // Cancel text input
	ActionRecallPrev Action = "recall_prev" // Older saved query
	ActionRecallNext Action = "recall_next" // Newer saved query

	// Viewer actions
	ActionCloseModal   Action = "close_modal"   // Close current modal
	ActionConfirm      Action = "confirm"       // Use the item under the cursor
	ActionHistoryClear Action = "history_clear" // Clear save history

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:           {ActionQuit, "Quit", "Global"},
	ActionQuitForce:      {ActionQuitForce, "Force quit", "Global"},
	ActionSave:           {ActionSave, "Save container", "Global"},
	ActionReload:         {ActionReload, "Reload container", "Global"},
	ActionOpenHelp:       {ActionOpenHelp, "Help", "Global"},
	ActionNavigateUp:     {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:   {ActionNavigateDown, "Move down", "Navigation"},
	ActionPageUp:         {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:       {ActionPageDown, "Page down", "Navigation"},
	ActionGoToTop:        {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:     {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionGoToTopPrepare: {ActionGoToTopPrepare, "Go to top (first key)", "Navigation"},
	ActionSwitchFocus:    {ActionSwitchFocus, "Switch focus", "Navigation"},
	ActionSelectKey:      {ActionSelectKey, "Edit selected key", "Keys"},
	ActionOpenFilter:     {ActionOpenFilter, "Filter keys", "Keys"},
	ActionClearFilter:    {ActionClearFilter, "Clear filter", "Keys"},
	ActionCopyValue:      {ActionCopyValue, "Copy value", "Value"},
	ActionOpenEditor:     {ActionOpenEditor, "Edit in external editor", "Value"},
	ActionOpenPreview:    {ActionOpenPreview, "Preview value", "Value"},
	ActionOpenQuery:      {ActionOpenQuery, "Query value", "Value"},
	ActionOpenFile:       {ActionOpenFile, "Open container", "Files"},
	ActionOpenRecent:     {ActionOpenRecent, "Recent containers", "Files"},
	ActionOpenHistory:    {ActionOpenHistory, "Save history", "Files"},
	ActionTextSubmit:     {ActionTextSubmit, "Submit", "Prompt"},
	ActionTextCancel:     {ActionTextCancel, "Cancel", "Prompt"},
	ActionRecallPrev:     {ActionRecallPrev, "Older saved query", "Prompt"},
	ActionRecallNext:     {ActionRecallNext, "Newer saved query", "Prompt"},
	ActionCloseModal:     {ActionCloseModal, "Close", "Viewer"},
	ActionConfirm:        {ActionConfirm, "Choose", "Viewer"},
	ActionHistoryClear:   {ActionHistoryClear, "Clear history", "Viewer"},
	ActionNoOp:           {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is defined
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	switch action {
	case ActionQuit, ActionQuitForce, ActionSave, ActionReload:
		return true
	}
	return false
}
