package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/dbedit/internal/persist"
	"github.com/studiowebux/dbedit/internal/session"
	"github.com/studiowebux/dbedit/internal/sink"
	"github.com/studiowebux/dbedit/internal/testutil"
	"github.com/studiowebux/dbedit/internal/types"
)

type recorder struct {
	notes []types.Notification
}

func (r *recorder) Notify(n types.Notification) {
	r.notes = append(r.notes, n)
}

func (r *recorder) last() types.Notification {
	if len(r.notes) == 0 {
		return types.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func newTestController(t *testing.T) (*Controller, *session.Buffer, *recorder) {
	t.Helper()
	buf := session.NewBuffer()
	rec := &recorder{}
	c := New(buf, Options{
		Accepts:  func(path string) bool { return filepath.Ext(path) == ".db" },
		Notifier: rec,
	})
	t.Cleanup(func() { c.Close() })
	return c, buf, rec
}

func sampleRows() []types.Record {
	return []types.Record{
		{Key: "k1", Value: `{"a":1}`},
		{Key: "k2", Value: "hello"},
	}
}

func TestNewControllerIsEmpty(t *testing.T) {
	c, _, _ := newTestController(t)

	if c.State() != StateEmpty {
		t.Errorf("Expected empty state, got %s", c.State())
	}
	if c.Path() != "" {
		t.Errorf("Expected no target, got %q", c.Path())
	}
	if c.Busy() {
		t.Error("Expected controller not to be busy")
	}
}

func TestOpen(t *testing.T) {
	c, _, rec := newTestController(t)
	path := testutil.NewContainer(t, sampleRows())

	if err := c.Open(context.Background(), path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if c.State() != StateLoaded {
		t.Errorf("Expected loaded state, got %s", c.State())
	}
	if c.Path() != path {
		t.Errorf("Expected target %s, got %s", path, c.Path())
	}
	if c.Name() != "fixture.db" {
		t.Errorf("Expected name fixture.db, got %s", c.Name())
	}
	if c.Session().Len() != 2 {
		t.Errorf("Expected 2 records, got %d", c.Session().Len())
	}

	data, _ := os.ReadFile(path)
	if c.Fingerprint() != persist.Sum(data) {
		t.Error("Expected fingerprint of the loaded bytes")
	}
	if rec.last().Status != types.StatusSuccess {
		t.Errorf("Expected success notification, got %+v", rec.last())
	}
}

func TestOpenUnsupportedFile(t *testing.T) {
	c, _, rec := newTestController(t)

	err := c.Open(context.Background(), "/tmp/notes.txt")
	if !errors.Is(err, types.ErrUnsupportedFile) {
		t.Fatalf("Expected ErrUnsupportedFile, got %v", err)
	}
	if rec.last().Status != types.StatusWarning {
		t.Errorf("Expected warning, got %+v", rec.last())
	}
	if c.Busy() {
		t.Error("Expected guard to be free after a rejected open")
	}
}

func TestOpenCorruptKeepsPreviousSession(t *testing.T) {
	c, _, rec := newTestController(t)
	good := testutil.NewContainer(t, sampleRows())
	if err := c.Open(context.Background(), good); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(bad, []byte("definitely not sqlite"), 0644); err != nil {
		t.Fatal(err)
	}

	err := c.Open(context.Background(), bad)
	if !errors.Is(err, types.ErrCorruptContainer) {
		t.Fatalf("Expected ErrCorruptContainer, got %v", err)
	}
	if rec.last().Status != types.StatusError {
		t.Errorf("Expected error notification, got %+v", rec.last())
	}
	if c.Path() != good || c.Session().Len() != 2 {
		t.Error("Expected the previous session to stay in place")
	}
}

func TestOpenEmptyContainer(t *testing.T) {
	c, _, rec := newTestController(t)
	if err := c.Open(context.Background(), testutil.NewContainer(t, sampleRows())); err != nil {
		t.Fatal(err)
	}

	empty := filepath.Join(t.TempDir(), "empty.db")
	testutil.WriteContainer(t, empty, nil)

	err := c.Open(context.Background(), empty)
	if !errors.Is(err, types.ErrEmptyContainer) {
		t.Fatalf("Expected ErrEmptyContainer, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Errorf("Expected empty state, got %s", c.State())
	}
	if c.Path() != "" {
		t.Error("Expected no target after loading an empty container")
	}
	if !c.Session().Empty() {
		t.Error("Expected the previous records to be discarded")
	}
	if rec.last().Status != types.StatusWarning {
		t.Errorf("Expected warning, got %+v", rec.last())
	}

	if err := c.Save(context.Background()); !errors.Is(err, types.ErrNoTargetBound) {
		t.Errorf("Expected ErrNoTargetBound, got %v", err)
	}
}

func TestSelectAndSave(t *testing.T) {
	c, buf, rec := newTestController(t)
	path := testutil.NewContainer(t, sampleRows())
	if err := c.Open(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	if err := c.Select("k1"); err != nil {
		t.Fatal(err)
	}
	if buf.Content() != "{\n    \"a\": 1\n}" {
		t.Errorf("Unexpected display form %q", buf.Content())
	}
	buf.Edit(`{"a":2}`)
	if err := c.Select("k2"); err != nil {
		t.Fatal(err)
	}
	buf.Edit("o'clock")

	before := c.Fingerprint()
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := []types.Record{
		{Key: "k1", Value: `{"a":2}`},
		{Key: "k2", Value: "o'clock"},
	}
	got := testutil.ReadContainer(t, path)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Container = %v, want %v", got, want)
	}

	data, _ := os.ReadFile(path)
	if c.Fingerprint() == before || c.Fingerprint() != persist.Sum(data) {
		t.Error("Expected fingerprint of the written bytes")
	}
	if rec.last().Status != types.StatusSuccess {
		t.Errorf("Expected success, got %+v", rec.last())
	}
}

func TestSelectUnknownKey(t *testing.T) {
	c, _, rec := newTestController(t)
	if err := c.Open(context.Background(), testutil.NewContainer(t, sampleRows())); err != nil {
		t.Fatal(err)
	}

	if err := c.Select("missing"); !errors.Is(err, types.ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if rec.last().Status != types.StatusWarning {
		t.Errorf("Expected warning, got %+v", rec.last())
	}
}

func TestSaveWithoutTarget(t *testing.T) {
	c, _, rec := newTestController(t)

	if err := c.Save(context.Background()); !errors.Is(err, types.ErrNoTargetBound) {
		t.Fatalf("Expected ErrNoTargetBound, got %v", err)
	}
	if rec.last().Status != types.StatusWarning {
		t.Errorf("Expected warning, got %+v", rec.last())
	}
	if c.Busy() {
		t.Error("Expected guard to be released")
	}
}

func TestOpenBytesUnbound(t *testing.T) {
	c, buf, _ := newTestController(t)

	data := testutil.ContainerBytes(t, sampleRows())
	if err := c.OpenBytes(context.Background(), "dropped.db", data, nil); err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	if c.State() != StateLoaded || c.Name() != "dropped.db" {
		t.Errorf("Unexpected state %s / %s", c.State(), c.Name())
	}

	if err := c.Select("k2"); err != nil {
		t.Fatal(err)
	}
	buf.Edit("changed")

	if err := c.Save(context.Background()); !errors.Is(err, types.ErrNoTargetBound) {
		t.Fatalf("Expected ErrNoTargetBound, got %v", err)
	}
	if v, _ := c.Session().Value("k2"); v != "hello" {
		t.Errorf("Expected record unchanged, got %q", v)
	}
}

func TestOpenBytesWithTarget(t *testing.T) {
	c, buf, _ := newTestController(t)
	target := filepath.Join(t.TempDir(), "out.db")

	data := testutil.ContainerBytes(t, sampleRows())
	if err := c.OpenBytes(context.Background(), "in.db", data, sink.NewFile(target)); err != nil {
		t.Fatal(err)
	}
	if err := c.Select("k2"); err != nil {
		t.Fatal(err)
	}
	buf.Edit("bye")

	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := testutil.ReadContainer(t, target)
	if len(got) != 2 || got[1].Value != "bye" {
		t.Errorf("Unexpected target contents %v", got)
	}
}

func TestLoadRefusedWhileSaveInFlight(t *testing.T) {
	c, buf, _ := newTestController(t)
	path := testutil.NewContainer(t, sampleRows())
	if err := c.Open(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if err := c.Select("k2"); err != nil {
		t.Fatal(err)
	}
	buf.Edit("saved value")

	job, err := c.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave failed: %v", err)
	}
	if !c.Busy() {
		t.Error("Expected controller to be busy during a save")
	}

	other := testutil.NewContainer(t, []types.Record{{Key: "x", Value: "y"}})
	if _, err := c.BeginOpen(other); !errors.Is(err, types.ErrBusy) {
		t.Errorf("Expected ErrBusy for a load during a save, got %v", err)
	}
	if _, err := c.BeginSave(); !errors.Is(err, types.ErrBusy) {
		t.Errorf("Expected ErrBusy for a second save, got %v", err)
	}

	if err := c.FinishSave(job.Run(context.Background())); err != nil {
		t.Fatalf("FinishSave failed: %v", err)
	}
	if c.Busy() {
		t.Error("Expected guard to be released")
	}

	got := testutil.ReadContainer(t, path)
	if got[1].Value != "saved value" {
		t.Errorf("Expected snapshot to be written, got %v", got)
	}

	if err := c.Open(context.Background(), other); err != nil {
		t.Errorf("Expected open after save to succeed, got %v", err)
	}
}

func TestSaveRefusedWhileLoadInFlight(t *testing.T) {
	c, _, _ := newTestController(t)
	path := testutil.NewContainer(t, sampleRows())

	job, err := c.BeginOpen(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginSave(); !errors.Is(err, types.ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if err := c.FinishOpen(job.Run(context.Background())); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateLoaded {
		t.Error("Expected loaded state")
	}
}

func TestReload(t *testing.T) {
	c, buf, _ := newTestController(t)
	path := testutil.NewContainer(t, sampleRows())
	if err := c.Open(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if err := c.Select("k2"); err != nil {
		t.Fatal(err)
	}
	buf.Edit("unsaved")

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if _, ok := c.Session().ActiveKey(); ok {
		t.Error("Expected no active key after reload")
	}
	if v, _ := c.Session().Value("k2"); v != "hello" {
		t.Errorf("Expected unsaved edit to be discarded, got %q", v)
	}
}

func TestReloadWithoutTarget(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.Reload(context.Background()); !errors.Is(err, types.ErrNoTargetBound) {
		t.Errorf("Expected ErrNoTargetBound, got %v", err)
	}
}

func TestClose(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.Open(context.Background(), testutil.NewContainer(t, sampleRows())); err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if c.State() != StateEmpty || c.Path() != "" || !c.Session().Empty() {
		t.Error("Expected controller to be reset")
	}
}

type memJournal struct {
	entries []types.SaveEntry
}

func (j *memJournal) Record(entry types.SaveEntry) error {
	j.entries = append(j.entries, entry)
	return nil
}

func TestSaveIsJournaled(t *testing.T) {
	journal := &memJournal{}
	c := New(session.NewBuffer(), Options{Journal: journal})
	t.Cleanup(func() { c.Close() })

	path := testutil.NewContainer(t, sampleRows())
	if err := c.Open(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(journal.entries) != 1 {
		t.Fatalf("Expected 1 journal entry, got %d", len(journal.entries))
	}
	e := journal.entries[0]
	if e.ContainerPath != path || e.RecordCount != 2 || e.Status != types.StatusSuccess {
		t.Errorf("Unexpected journal entry %+v", e)
	}
}
