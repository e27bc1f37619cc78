// Package sink writes exported container bytes to their target file.
//
// A write channel stages bytes in a temp file next to the target and only
// replaces the target when Close succeeds without any earlier write failure,
// so a failed save never leaves a partial container behind.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/types"
)

// Sink is a possibly unbound writable target
type Sink interface {
	Bound() bool
	Target() string
	OpenWritable(ctx context.Context) (io.WriteCloser, error)
}

// Unbound is a sink with no target
type Unbound struct{}

func (Unbound) Bound() bool    { return false }
func (Unbound) Target() string { return "" }

func (Unbound) OpenWritable(context.Context) (io.WriteCloser, error) {
	return nil, types.ErrNoTargetBound
}

// File is a sink bound to a path on disk
type File struct {
	path string
}

// NewFile binds a sink to path
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Bound() bool    { return f != nil && f.path != "" }
func (f *File) Target() string { return f.path }

// OpenWritable starts a new write to the target
func (f *File) OpenWritable(ctx context.Context) (io.WriteCloser, error) {
	if !f.Bound() {
		return nil, types.ErrNoTargetBound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temp file: %v", types.ErrSinkWrite, err)
	}

	perm := os.FileMode(config.FilePermissions)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	return &channel{tmp: tmp, target: f.path, perm: perm}, nil
}

// channel is one in-progress write. Close is safe to call more than once.
type channel struct {
	tmp    *os.File
	target string
	perm   os.FileMode
	failed bool
	closed bool
}

func (c *channel) Write(p []byte) (int, error) {
	if c.closed {
		return 0, fmt.Errorf("%w: write after close", types.ErrSinkWrite)
	}
	n, err := c.tmp.Write(p)
	if err != nil {
		c.failed = true
		return n, fmt.Errorf("%w: %v", types.ErrSinkWrite, err)
	}
	return n, nil
}

// Close commits the staged bytes to the target, or discards them when a write failed
func (c *channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	tmpPath := c.tmp.Name()

	if c.failed {
		c.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: discarded incomplete write", types.ErrSinkWrite)
	}

	if err := c.tmp.Sync(); err != nil {
		c.tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to sync: %v", types.ErrSinkWrite, err)
	}
	if err := c.tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to close: %v", types.ErrSinkWrite, err)
	}
	if err := os.Chmod(tmpPath, c.perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to set permissions: %v", types.ErrSinkWrite, err)
	}
	if err := os.Rename(tmpPath, c.target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace %s: %v", types.ErrSinkWrite, c.target, err)
	}
	return nil
}

// Abort discards the staged bytes without touching the target
func (c *channel) Abort() {
	c.failed = true
}
