// Package controller binds user intents (open a container, pick a key, save)
// to the record session and the persistence coordinator and reports every
// outcome as a notification.
//
// Loads and saves have two phases so an event loop can run the file and store
// I/O on a worker while all session mutation stays on the loop:
//
//	job, err := c.BeginSave()   // loop goroutine: guard + snapshot
//	res := job.Run(ctx)         // any goroutine: store updates, export, write
//	err = c.FinishSave(res)     // loop goroutine: release guard, notify
//
// Open, Save and Reload chain the phases for synchronous callers.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"github.com/studiowebux/dbedit/internal/persist"
	"github.com/studiowebux/dbedit/internal/session"
	"github.com/studiowebux/dbedit/internal/sink"
	"github.com/studiowebux/dbedit/internal/store"
	"github.com/studiowebux/dbedit/internal/types"
)

// State is the controller's lifecycle state
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// Notifier receives load and save outcomes
type Notifier interface {
	Notify(n types.Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n types.Notification)

func (f NotifierFunc) Notify(n types.Notification) { f(n) }

// Options configure a controller
type Options struct {
	Schema   store.Schema
	Accepts  func(path string) bool // nil accepts every file
	Journal  persist.Journal
	Notifier Notifier
}

// Controller owns the session, the open store and the bound file target
type Controller struct {
	opts Options

	session *session.Session
	coord   *persist.Coordinator
	guard   *semaphore.Weighted

	state       State
	store       *store.Store
	sink        sink.Sink
	name        string
	fingerprint string
}

// New creates an empty controller editing through surface
func New(surface session.Surface, opts Options) *Controller {
	if opts.Schema == (store.Schema{}) {
		opts.Schema = store.DefaultSchema
	}
	return &Controller{
		opts:    opts,
		session: session.New(surface),
		coord:   persist.New(opts.Journal),
		guard:   semaphore.NewWeighted(1),
		sink:    sink.Unbound{},
	}
}

// State returns the lifecycle state
func (c *Controller) State() State { return c.state }

// Session returns the record session
func (c *Controller) Session() *session.Session { return c.session }

// Path returns the bound target, empty when unbound
func (c *Controller) Path() string { return c.sink.Target() }

// Name returns the display name of the loaded container
func (c *Controller) Name() string { return c.name }

// Fingerprint returns the hex SHA-256 of the bytes last loaded or written
func (c *Controller) Fingerprint() string { return c.fingerprint }

// Busy reports whether a load or save is in flight
func (c *Controller) Busy() bool {
	if !c.guard.TryAcquire(1) {
		return true
	}
	c.guard.Release(1)
	return false
}

// OpenJob is a load whose I/O has not run yet
type OpenJob struct {
	name   string
	path   string
	data   []byte
	sink   sink.Sink
	schema store.Schema
}

// OpenResult is the outcome of an OpenJob
type OpenResult struct {
	job     *OpenJob
	store   *store.Store
	records []types.Record
	sum     string
	err     error
}

// Err returns the I/O error of the load, if any
func (r *OpenResult) Err() error { return r.err }

// BeginOpen starts loading the container at path, bound as the new target
func (c *Controller) BeginOpen(path string) (*OpenJob, error) {
	if c.opts.Accepts != nil && !c.opts.Accepts(path) {
		err := fmt.Errorf("%w: %s", types.ErrUnsupportedFile, filepath.Base(path))
		c.notify(types.StatusWarning, "Only database files are accepted", err)
		return nil, err
	}
	if !c.guard.TryAcquire(1) {
		c.notify(types.StatusWarning, "Wait for the current load or save to finish", types.ErrBusy)
		return nil, types.ErrBusy
	}
	return &OpenJob{
		name:   filepath.Base(path),
		path:   path,
		sink:   sink.NewFile(path),
		schema: c.opts.Schema,
	}, nil
}

// BeginOpenBytes starts loading data that the caller already read. target is
// bound on success and may be sink.Unbound{}.
func (c *Controller) BeginOpenBytes(name string, data []byte, target sink.Sink) (*OpenJob, error) {
	if !c.guard.TryAcquire(1) {
		c.notify(types.StatusWarning, "Wait for the current load or save to finish", types.ErrBusy)
		return nil, types.ErrBusy
	}
	if target == nil {
		target = sink.Unbound{}
	}
	return &OpenJob{
		name:   name,
		data:   data,
		sink:   target,
		schema: c.opts.Schema,
	}, nil
}

// Run reads the source bytes and initializes a store from them
func (j *OpenJob) Run(ctx context.Context) *OpenResult {
	res := &OpenResult{job: j}

	data := j.data
	if data == nil {
		var err error
		data, err = os.ReadFile(j.path)
		if err != nil {
			res.err = fmt.Errorf("failed to read %s: %w", j.path, err)
			return res
		}
	}

	res.sum = persist.Sum(data)
	res.store, res.records, res.err = store.LoadFromBytes(ctx, data, j.schema)
	return res
}

// FinishOpen applies a finished load. On failure the previous session stays
// in place. An empty container resets the session and leaves no target bound.
func (c *Controller) FinishOpen(res *OpenResult) error {
	defer c.guard.Release(1)

	if res.err != nil {
		c.notify(types.StatusError, "Failed to open "+res.job.name, res.err)
		return res.err
	}

	c.closeStore()
	err := c.session.Load(res.records)
	if errors.Is(err, types.ErrEmptyContainer) {
		res.store.Close()
		c.state = StateEmpty
		c.sink = sink.Unbound{}
		c.name = ""
		c.fingerprint = ""
		c.notify(types.StatusWarning, res.job.name+" has no records", err)
		return err
	}

	c.store = res.store
	c.sink = res.job.sink
	c.name = res.job.name
	c.fingerprint = res.sum
	c.state = StateLoaded
	slog.Info("Container loaded", "name", c.name, "path", c.sink.Target(), "records", c.session.Len())
	c.notify(types.StatusSuccess, fmt.Sprintf("Loaded %d records from %s", c.session.Len(), c.name), nil)
	return nil
}

// Open loads the container at path
func (c *Controller) Open(ctx context.Context, path string) error {
	job, err := c.BeginOpen(path)
	if err != nil {
		return err
	}
	return c.FinishOpen(job.Run(ctx))
}

// OpenBytes loads data the caller already read
func (c *Controller) OpenBytes(ctx context.Context, name string, data []byte, target sink.Sink) error {
	job, err := c.BeginOpenBytes(name, data, target)
	if err != nil {
		return err
	}
	return c.FinishOpen(job.Run(ctx))
}

// Reload loads the bound target again, discarding unsaved edits
func (c *Controller) Reload(ctx context.Context) error {
	if !c.sink.Bound() {
		c.notify(types.StatusWarning, "Nothing to reload", types.ErrNoTargetBound)
		return types.ErrNoTargetBound
	}
	return c.Open(ctx, c.sink.Target())
}

// Select makes key the active key, committing the previous key's edit first
func (c *Controller) Select(key string) error {
	if err := c.session.Select(key); err != nil {
		c.notify(types.StatusWarning, "No such key", err)
		return err
	}
	return nil
}

// SaveJob is a save whose snapshot is taken but whose I/O has not run yet
type SaveJob struct {
	coord *persist.Coordinator
	job   *persist.Job
}

// SaveResult is the outcome of a SaveJob
type SaveResult struct {
	Report types.SaveReport
	err    error
}

// Err returns the save error, if any
func (r *SaveResult) Err() error { return r.err }

// BeginSave snapshots the session for saving
func (c *Controller) BeginSave() (*SaveJob, error) {
	if !c.guard.TryAcquire(1) {
		c.notify(types.StatusWarning, "Wait for the current load or save to finish", types.ErrBusy)
		return nil, types.ErrBusy
	}

	var st persist.Store
	if c.store != nil {
		st = c.store
	}
	job, err := c.coord.Prepare(c.session, st, c.sink)
	if err != nil {
		c.guard.Release(1)
		c.notify(types.StatusWarning, "Open a file before saving", err)
		return nil, err
	}
	return &SaveJob{coord: c.coord, job: job}, nil
}

// Run writes the snapshot to the store and the target
func (j *SaveJob) Run(ctx context.Context) *SaveResult {
	report, err := j.coord.Run(ctx, j.job)
	return &SaveResult{Report: report, err: err}
}

// FinishSave reports a finished save
func (c *Controller) FinishSave(res *SaveResult) error {
	defer c.guard.Release(1)

	if res.err != nil {
		c.notify(types.StatusError, "Failed to save "+c.name, res.err)
		return res.err
	}

	c.fingerprint = res.Report.Sum
	c.notify(types.StatusSuccess, fmt.Sprintf("Saved %d records to %s", res.Report.Records, c.name), nil)
	return nil
}

// Save writes every record back to the bound target
func (c *Controller) Save(ctx context.Context) error {
	job, err := c.BeginSave()
	if err != nil {
		return err
	}
	return c.FinishSave(job.Run(ctx))
}

// Close releases the open store. The controller can be reused afterwards.
func (c *Controller) Close() error {
	if !c.guard.TryAcquire(1) {
		return types.ErrBusy
	}
	defer c.guard.Release(1)

	err := c.closeStore()
	c.session.Load(nil)
	c.state = StateEmpty
	c.sink = sink.Unbound{}
	c.name = ""
	c.fingerprint = ""
	return err
}

func (c *Controller) closeStore() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *Controller) notify(status types.Status, message string, err error) {
	if c.opts.Notifier == nil {
		return
	}
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	c.opts.Notifier.Notify(types.Notification{Status: status, Message: message, Err: err})
}
