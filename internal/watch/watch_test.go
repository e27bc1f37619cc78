package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/dbedit/internal/persist"
)

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c, ok := <-w.Changes():
		if !ok {
			t.Fatal("Changes channel closed")
		}
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for a change")
	}
	return Change{}
}

func TestWatcherReportsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(path, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(context.Background(), path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}

	c := waitChange(t, w)
	if c.Path != w.Path() {
		t.Errorf("Expected path %s, got %s", w.Path(), c.Path)
	}
	if c.Sum != persist.Sum([]byte("two")) {
		t.Errorf("Expected sum of the new contents, got %s", c.Sum)
	}
}

func TestWatcherReportsReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")
	if err := os.WriteFile(path, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(context.Background(), path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	tmp := filepath.Join(dir, ".data.db.tmp")
	if err := os.WriteFile(tmp, []byte("replaced"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	c := waitChange(t, w)
	if c.Sum != persist.Sum([]byte("replaced")) {
		t.Errorf("Expected sum of the replaced contents, got %s", c.Sum)
	}
}

func TestWatcherReportsRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(path, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(context.Background(), path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if c := waitChange(t, w); !c.Removed {
		t.Errorf("Expected a removal, got %+v", c)
	}
}

func TestWatcherCloseClosesChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(path, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(context.Background(), path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-w.Changes():
		if ok {
			t.Error("Expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("Timed out waiting for channel close")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(context.Background(), filepath.Join(t.TempDir(), "nope", "data.db"), 0); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
