package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/dbedit/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "dbedit.db"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndList(t *testing.T) {
	m := newTestManager(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)

	entries := []types.SaveEntry{
		{Timestamp: base, ContainerPath: "/data/a.db", RecordCount: 3, BytesWritten: 4096, DurationMs: 12, Status: types.StatusSuccess},
		{Timestamp: base.Add(time.Minute), ContainerPath: "/data/b.db", RecordCount: 1, Status: types.StatusError, Error: "file write failed"},
	}
	for _, e := range entries {
		if err := m.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := m.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}

	// Newest first
	if got[0].ContainerPath != "/data/b.db" {
		t.Errorf("Expected newest entry first, got %s", got[0].ContainerPath)
	}
	if got[0].Status != types.StatusError || got[0].Error != "file write failed" {
		t.Errorf("Unexpected failed entry %+v", got[0])
	}
	if got[1].BytesWritten != 4096 || got[1].RecordCount != 3 || got[1].DurationMs != 12 {
		t.Errorf("Unexpected success entry %+v", got[1])
	}
	if !got[1].Timestamp.Equal(base) {
		t.Errorf("Expected timestamp %v, got %v", base, got[1].Timestamp)
	}
	if got[1].Error != "" {
		t.Errorf("Expected no error text, got %q", got[1].Error)
	}
}

func TestListLimit(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 5; i++ {
		if err := m.Record(types.SaveEntry{ContainerPath: "/a.db", Status: types.StatusSuccess}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.List(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(got))
	}
}

func TestListForContainer(t *testing.T) {
	m := newTestManager(t)
	for _, p := range []string{"/a.db", "/b.db", "/a.db"} {
		if err := m.Record(types.SaveEntry{ContainerPath: p, Status: types.StatusSuccess}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.ListForContainer("/a.db")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(got))
	}
}

func TestClearAndDelete(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 2; i++ {
		if err := m.Record(types.SaveEntry{ContainerPath: "/a.db", Status: types.StatusSuccess}); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := m.List(0)
	if err := m.Delete(entries[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count, _ := m.GetCount(); count != 1 {
		t.Errorf("Expected 1 entry after delete, got %d", count)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if count, _ := m.GetCount(); count != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", count)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbedit.db")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Record(types.SaveEntry{ContainerPath: "/a.db", Status: types.StatusSuccess}); err != nil {
		t.Fatal(err)
	}
	m.Close()

	m, err = NewManager(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer m.Close()

	if count, _ := m.GetCount(); count != 1 {
		t.Errorf("Expected 1 entry after reopen, got %d", count)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
