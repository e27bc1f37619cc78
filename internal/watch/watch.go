// Package watch reports modifications of an open container made by other
// programs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/studiowebux/dbedit/internal/persist"
)

// DefaultDebounce groups the bursts of events a single write produces
const DefaultDebounce = 150 * time.Millisecond

// Change describes new contents of the watched file
type Change struct {
	Path    string
	Sum     string // hex SHA-256 of the new contents, empty when Removed
	Removed bool
}

// Watcher watches one file. The parent directory is watched so the file can
// be replaced by rename, which is how containers are saved.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan Change
	cancel   context.CancelFunc
	done     chan struct{}
}

// New starts watching path until ctx is done or Close is called
func New(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		fs:       fw,
		path:     abs,
		debounce: debounce,
		changes:  make(chan Change, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Path returns the watched file
func (w *Watcher) Path() string { return w.path }

// Changes delivers one Change per settled burst of events. It is closed when
// the watcher stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Close stops the watcher and waits for it to finish
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.changes)
	defer func() { _ = w.fs.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = true
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "Error watching container", "path", w.path, "err", err)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			change := w.snapshot()
			select {
			case w.changes <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Watcher) snapshot() Change {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return Change{Path: w.path, Removed: true}
	}
	if err != nil {
		slog.Warn("Failed to read changed container", "path", w.path, "err", err)
		return Change{Path: w.path}
	}
	return Change{Path: w.path, Sum: persist.Sum(data)}
}
