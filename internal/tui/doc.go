/*
Package tui implements the terminal user interface of dbedit.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, message types and status messages
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Open, save, reload, clipboard, external editor, query, watch
  - render.go: Key list, editor pane and status bar
  - editor.go: The textarea backed Text Surface given to the controller
  - modals.go, mru_modal.go, history_modal.go: Help, preview, prompts,
    recent files and save history

# Loads and Saves

Loads and saves go through controller.Controller in two phases. The Begin
call runs in Update and takes the in-flight guard; the file and store I/O
runs inside a tea.Cmd; the result comes back as openDoneMsg or saveDoneMsg
and the Finish call applies it in Update. Session state is only touched from
Update.

# Keybind System

Keybinds are managed through the keybinds.Registry:
  - Context-aware bindings (global, keys, editor, prompt, viewer)
  - User-customizable via keybinds.json
  - Keys without a binding are typed into the editor
*/
package tui
