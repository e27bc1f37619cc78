/*
Package keybinds provides customizable keyboard binding management.

# Contexts

  - global: available everywhere (save, reload, quit, modal launchers)
  - keys: the key list has focus
  - editor: the value editor has focus; unbound keys are typed
  - prompt: a single line input is open (open path, filter, query)
  - viewer: a scrollable modal is open (help, preview, history, recent)

A key bound in a specific context shadows the same key in global.

# Configuration File Format

User bindings live in keybinds.json next to the settings file. The file is
JSON with comments; each section maps a key to an action name, and the
action "none" removes a default binding:

	{
	  // vim users
	  "keys": {
	    "x": "open_editor",
	    "e": "none",
	  },
	  "global": {
	    "ctrl+w": "save"
	  }
	}

# Multi-Key Sequences

A key bound to go_to_top_prepare starts a sequence; "gg" jumps to the top.

# Validation

The validator reports unknown actions as errors and warns about rebound
reserved keys (ctrl+c), printable keys bound where text is typed, and
bindings that shadow a global binding.
*/
package keybinds
