package tui

import (
	"testing"

	"github.com/studiowebux/dbedit/internal/types"
)

func TestHistoryState_Navigation(t *testing.T) {
	state := NewHistoryState()
	state.SetEntries([]types.SaveEntry{{ID: 1}, {ID: 2}, {ID: 3}})

	state.Navigate(-1)
	AssertModelField(t, "index after wrap", state.GetIndex(), 2)

	state.Navigate(1)
	AssertModelField(t, "index after wrap back", state.GetIndex(), 0)

	state.SetIndex(10)
	AssertModelField(t, "clamped index", state.GetIndex(), 2)

	entry, ok := state.GetCurrentEntry()
	AssertModelField(t, "has entry", ok, true)
	AssertModelField(t, "entry id", entry.ID, int64(3))
}

func TestHistoryState_SetEntriesKeepsIndexInRange(t *testing.T) {
	state := NewHistoryState()
	state.SetEntries([]types.SaveEntry{{ID: 1}, {ID: 2}, {ID: 3}})
	state.SetIndex(2)

	state.SetEntries([]types.SaveEntry{{ID: 1}})
	AssertModelField(t, "index", state.GetIndex(), 0)
}

func TestHistoryState_Clear(t *testing.T) {
	state := NewHistoryState()
	state.SetEntries([]types.SaveEntry{{ID: 1}})
	state.SetConfirmClear(true)

	state.Clear()

	AssertModelField(t, "entries", len(state.GetEntries()), 0)
	AssertModelField(t, "confirming", state.ConfirmingClear(), false)
	if _, ok := state.GetCurrentEntry(); ok {
		t.Error("Expected no current entry")
	}
}
