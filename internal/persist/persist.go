// Package persist writes a session back to its container: it pushes every
// record into the Tabular Store, exports the store and writes the bytes to the
// bound File Sink.
package persist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studiowebux/dbedit/internal/session"
	"github.com/studiowebux/dbedit/internal/sink"
	"github.com/studiowebux/dbedit/internal/types"
)

// Snapshotter yields the canonical records to save, flushing pending edits
type Snapshotter interface {
	Snapshot() session.Snapshot
}

// Store is the part of the Tabular Store a save needs
type Store interface {
	UpdateRow(ctx context.Context, key, value string) error
	ExportBytes(ctx context.Context) ([]byte, error)
}

// Journal records the outcome of every save attempt
type Journal interface {
	Record(entry types.SaveEntry) error
}

// Coordinator runs saves
type Coordinator struct {
	journal Journal
	now     func() time.Time
}

// New creates a coordinator. journal may be nil.
func New(journal Journal) *Coordinator {
	return &Coordinator{journal: journal, now: time.Now}
}

// Job is a save whose snapshot has been taken but whose I/O has not run yet
type Job struct {
	records []types.Record
	store   Store
	sink    sink.Sink
}

// Records returns the snapshot the job will write
func (j *Job) Records() []types.Record {
	return j.records
}

// Target returns the path the job writes to
func (j *Job) Target() string {
	return j.sink.Target()
}

// Save prepares and runs a save in one call
func (c *Coordinator) Save(ctx context.Context, src Snapshotter, st Store, sk sink.Sink) (types.SaveReport, error) {
	job, err := c.Prepare(src, st, sk)
	if err != nil {
		return types.SaveReport{}, err
	}
	return c.Run(ctx, job)
}

// Prepare checks the target and takes the snapshot. It does no I/O, so event
// loops call it on their own goroutine and hand the job to a worker.
// Without a bound target nothing is flushed and ErrNoTargetBound is returned.
func (c *Coordinator) Prepare(src Snapshotter, st Store, sk sink.Sink) (*Job, error) {
	if sk == nil || !sk.Bound() || st == nil {
		return nil, types.ErrNoTargetBound
	}

	snap := src.Snapshot()
	return &Job{
		records: snap.Records(),
		store:   st,
		sink:    sk,
	}, nil
}

// Run applies the job's records to the store, exports it and writes the bytes.
// The write channel is closed on every path.
func (c *Coordinator) Run(ctx context.Context, job *Job) (report types.SaveReport, err error) {
	started := c.now()
	report.Path = job.sink.Target()
	report.Records = len(job.records)

	defer func() {
		report.Duration = c.now().Sub(started)
		c.record(report, started, err)
	}()

	for _, r := range job.records {
		if err := job.store.UpdateRow(ctx, r.Key, r.Value); err != nil {
			return report, fmt.Errorf("failed to update record %q: %w", r.Key, err)
		}
	}

	data, err := job.store.ExportBytes(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to export container: %w", err)
	}

	if err := c.write(ctx, job.sink, data); err != nil {
		return report, err
	}

	report.Bytes = len(data)
	report.Sum = Sum(data)
	slog.InfoContext(ctx, "Container saved", "path", report.Path, "records", report.Records, "bytes", report.Bytes)
	return report, nil
}

func (c *Coordinator) write(ctx context.Context, sk sink.Sink, data []byte) (err error) {
	w, err := sk.OpenWritable(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", sk.Target(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to finish writing %s: %w", sk.Target(), cerr)
		}
	}()

	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", sk.Target(), err)
	}
	if n != len(data) {
		if a, ok := w.(interface{ Abort() }); ok {
			a.Abort()
		}
		return fmt.Errorf("%w: short write to %s (%d of %d bytes)", types.ErrSinkWrite, sk.Target(), n, len(data))
	}
	return nil
}

func (c *Coordinator) record(report types.SaveReport, started time.Time, saveErr error) {
	if saveErr != nil {
		slog.Warn("Save failed", "path", report.Path, "err", saveErr)
	}
	if c.journal == nil {
		return
	}

	entry := types.SaveEntry{
		Timestamp:     started,
		ContainerPath: report.Path,
		RecordCount:   report.Records,
		BytesWritten:  report.Bytes,
		DurationMs:    report.Duration.Milliseconds(),
		Status:        types.StatusSuccess,
	}
	if saveErr != nil {
		entry.Status = types.Classify(saveErr)
		entry.Error = saveErr.Error()
		if errors.Is(saveErr, context.Canceled) {
			entry.Status = types.StatusWarning
		}
	}

	if err := c.journal.Record(entry); err != nil {
		slog.Warn("Failed to record save in journal", "path", report.Path, "err", err)
	}
}

// Sum returns the hex SHA-256 of container bytes
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
