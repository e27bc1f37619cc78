package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerKeyListBindings(r)
	registerEditorBindings(r)
	registerPromptBindings(r)
	registerViewerBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all contexts.
// They use modifiers so they never collide with typing in the editor.
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "ctrl+q", ActionQuit)
	r.Register(ContextGlobal, "ctrl+s", ActionSave)
	r.Register(ContextGlobal, "ctrl+r", ActionReload)
	r.Register(ContextGlobal, "f1", ActionOpenHelp)
	r.Register(ContextGlobal, "ctrl+o", ActionOpenFile)
	r.Register(ContextGlobal, "ctrl+t", ActionOpenRecent)
	r.Register(ContextGlobal, "ctrl+h", ActionOpenHistory)
	r.Register(ContextGlobal, "ctrl+y", ActionCopyValue)
	r.Register(ContextGlobal, "ctrl+e", ActionOpenEditor)
	r.Register(ContextGlobal, "ctrl+p", ActionOpenPreview)
	r.Register(ContextGlobal, "ctrl+j", ActionOpenQuery)
}

// registerKeyListBindings sets up the key list
func registerKeyListBindings(r *Registry) {
	r.RegisterMultiple(ContextKeys, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextKeys, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextKeys, "pgup", ActionPageUp)
	r.Register(ContextKeys, "pgdown", ActionPageDown)
	r.Register(ContextKeys, "g", ActionGoToTopPrepare)
	r.Register(ContextKeys, "gg", ActionGoToTop)
	r.Register(ContextKeys, "home", ActionGoToTop)
	r.RegisterMultiple(ContextKeys, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextKeys, "enter", ActionSelectKey)
	r.RegisterMultiple(ContextKeys, []string{"tab", "l"}, ActionSwitchFocus)
	r.Register(ContextKeys, "/", ActionOpenFilter)
	r.Register(ContextKeys, "esc", ActionClearFilter)
	r.Register(ContextKeys, "?", ActionOpenHelp)
	r.Register(ContextKeys, "q", ActionQuit)
	r.Register(ContextKeys, "y", ActionCopyValue)
	r.Register(ContextKeys, "e", ActionOpenEditor)
	r.Register(ContextKeys, "p", ActionOpenPreview)
	r.Register(ContextKeys, "o", ActionOpenFile)
}

// registerEditorBindings sets up the value editor. Unbound keys are typed.
func registerEditorBindings(r *Registry) {
	r.RegisterMultiple(ContextEditor, []string{"tab", "esc"}, ActionSwitchFocus)
}

// registerPromptBindings sets up single line inputs
func registerPromptBindings(r *Registry) {
	r.Register(ContextPrompt, "enter", ActionTextSubmit)
	r.Register(ContextPrompt, "esc", ActionTextCancel)
	r.Register(ContextPrompt, "up", ActionRecallPrev)
	r.Register(ContextPrompt, "down", ActionRecallNext)
}

// registerViewerBindings sets up scrollable modals
func registerViewerBindings(r *Registry) {
	r.RegisterMultiple(ContextViewer, []string{"esc", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextViewer, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextViewer, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextViewer, "pgup", ActionPageUp)
	r.Register(ContextViewer, "pgdown", ActionPageDown)
	r.Register(ContextViewer, "g", ActionGoToTopPrepare)
	r.Register(ContextViewer, "gg", ActionGoToTop)
	r.Register(ContextViewer, "home", ActionGoToTop)
	r.RegisterMultiple(ContextViewer, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextViewer, "enter", ActionConfirm)
	r.Register(ContextViewer, "C", ActionHistoryClear)
}
