package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/dbedit/internal/types"
)

func TestUnbound(t *testing.T) {
	var s Sink = Unbound{}
	if s.Bound() {
		t.Error("Expected Unbound to be unbound")
	}
	if _, err := s.OpenWritable(context.Background()); !errors.Is(err, types.ErrNoTargetBound) {
		t.Errorf("Expected ErrNoTargetBound, got %v", err)
	}

	var empty *File
	if empty.Bound() {
		t.Error("Expected nil File to be unbound")
	}
	if NewFile("").Bound() {
		t.Error("Expected empty path to be unbound")
	}
}

func TestFileWriteReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.db")
	if err := os.WriteFile(target, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	f := NewFile(target)
	w, err := f.OpenWritable(context.Background())
	if err != nil {
		t.Fatalf("OpenWritable failed: %v", err)
	}
	if _, err := w.Write([]byte("new ")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("contents")); err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "old" {
		t.Errorf("target changed before Close: %q", got)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	got, _ = os.ReadFile(target)
	if string(got) != "new contents" {
		t.Errorf("target = %q", got)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions to be kept, got %v", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the target in %s, got %d entries", dir, len(entries))
	}

	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := w.Write([]byte("x")); !errors.Is(err, types.ErrSinkWrite) {
		t.Errorf("Expected ErrSinkWrite after close, got %v", err)
	}
}

func TestFileCreatesMissingTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "fresh.db")
	w, err := NewFile(target).OpenWritable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(target); string(got) != "hi" {
		t.Errorf("target = %q", got)
	}
}

func TestAbortKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.db")
	if err := os.WriteFile(target, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewFile(target).OpenWritable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("partial"))
	w.(*channel).Abort()

	if err := w.Close(); !errors.Is(err, types.ErrSinkWrite) {
		t.Errorf("Expected ErrSinkWrite, got %v", err)
	}
	if got, _ := os.ReadFile(target); string(got) != "original" {
		t.Errorf("target = %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected temp file to be removed, got %d entries", len(entries))
	}
}

func TestOpenWritableMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "no", "such", "dir", "data.db")
	_, err := NewFile(target).OpenWritable(context.Background())
	if !errors.Is(err, types.ErrSinkWrite) {
		t.Errorf("Expected ErrSinkWrite, got %v", err)
	}
}

func TestOpenWritableCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFile(filepath.Join(t.TempDir(), "x.db")).OpenWritable(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
