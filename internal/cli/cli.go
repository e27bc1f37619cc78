// Package cli implements the non-interactive dbedit commands. Every command
// goes through the same controller as the TUI, with a headless buffer as the
// text surface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/dbedit/internal/bookmarks"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/content"
	"github.com/studiowebux/dbedit/internal/controller"
	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/persist"
	"github.com/studiowebux/dbedit/internal/query"
	"github.com/studiowebux/dbedit/internal/recent"
	"github.com/studiowebux/dbedit/internal/session"
	"github.com/studiowebux/dbedit/internal/types"
)

// Options are shared by every command
type Options struct {
	Settings config.Settings
	Out      io.Writer // defaults to os.Stdout
	In       io.Reader // defaults to os.Stdin
	Journal  persist.Journal
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o Options) in() io.Reader {
	if o.In == nil {
		return os.Stdin
	}
	return o.In
}

// GetOptions select how a single value is printed
type GetOptions struct {
	Options
	Path  string
	Key   string // empty asks interactively
	Raw   bool   // stored form instead of display form
	Query string // JMESPath expression or $(command)
}

// SetOptions describe a single value replacement
type SetOptions struct {
	Options
	Path  string
	Key   string
	Value string // "-" reads stdin
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// logNotifier relays controller outcomes to the logger. Failures are also
// returned to the caller, so they are logged at debug level only.
func logNotifier(n types.Notification) {
	switch n.Status {
	case types.StatusSuccess:
		slog.Info(n.Message)
	default:
		slog.Debug(n.Message, "status", n.Status, "err", n.Err)
	}
}

// open loads path into a controller editing through a headless buffer
func open(ctx context.Context, opts Options, path string) (*controller.Controller, *session.Buffer, error) {
	buf := session.NewBuffer()
	ctrl := controller.New(buf, controller.Options{
		Schema:   opts.Settings.Schema(),
		Accepts:  opts.Settings.Accepts,
		Journal:  opts.Journal,
		Notifier: controller.NotifierFunc(logNotifier),
	})
	if err := ctrl.Open(ctx, path); err != nil {
		ctrl.Close()
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return ctrl, buf, nil
}

// Keys prints the keys of the container in load order
func Keys(ctx context.Context, opts Options, path string, format string) error {
	ctrl, _, err := open(ctx, opts, path)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	keys := ctrl.Session().Keys()
	switch format {
	case "", "text":
		for _, key := range keys {
			fmt.Fprintln(opts.out(), key)
		}
		return nil
	default:
		return writeFormatted(opts.out(), keys, format)
	}
}

// Get prints one value
func Get(ctx context.Context, opts GetOptions) error {
	ctrl, _, err := open(ctx, opts.Options, opts.Path)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	sess := ctrl.Session()
	key := opts.Key
	if key == "" {
		if !isInteractive() {
			return errors.New("missing key (non-interactive mode)")
		}
		key, err = promptForKey(filepath.Base(opts.Path), sess)
		if err != nil {
			return err
		}
	}

	value, ok := sess.Value(key)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownKey, key)
	}

	var output string
	switch {
	case opts.Query != "":
		output, err = query.Apply(ctx, value, opts.Query)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
	case opts.Raw:
		output = value
	default:
		output = content.DisplayForm(value)
	}

	fmt.Fprintln(opts.out(), output)
	return nil
}

// Set replaces one value and saves the container
func Set(ctx context.Context, opts SetOptions) error {
	value := opts.Value
	if value == "-" {
		data, err := io.ReadAll(opts.in())
		if err != nil {
			return fmt.Errorf("failed to read value from stdin: %w", err)
		}
		value = strings.TrimSuffix(string(data), "\n")
	}

	ctrl, buf, err := open(ctx, opts.Options, opts.Path)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.Select(opts.Key); err != nil {
		return fmt.Errorf("failed to select %q: %w", opts.Key, err)
	}
	buf.Edit(value)

	if err := ctrl.Save(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", opts.Path, err)
	}
	return nil
}

// Export prints every record in json or yaml
func Export(ctx context.Context, opts Options, path string, format string, savePath string) error {
	ctrl, _, err := open(ctx, opts, path)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	records := ctrl.Session().Snapshot().Records()

	if savePath == "" {
		return writeFormatted(opts.out(), records, format)
	}

	var sb strings.Builder
	if err := writeFormatted(&sb, records, format); err != nil {
		return err
	}
	if err := os.WriteFile(savePath, []byte(sb.String()), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), savePath)
	return nil
}

// History prints the most recent save journal entries
func History(opts Options, hist *history.Manager, limit int, format string) error {
	entries, err := hist.List(limit)
	if err != nil {
		return err
	}

	switch format {
	case "", "text":
		if len(entries) == 0 {
			fmt.Fprintln(opts.out(), "No saves recorded")
			return nil
		}
		for _, entry := range entries {
			fmt.Fprintln(opts.out(), formatEntry(entry))
		}
		return nil
	default:
		return writeFormatted(opts.out(), entries, format)
	}
}

// Recent prints the recently opened containers, most recent first
func Recent(opts Options, mru *recent.Manager) error {
	for _, path := range mru.List() {
		fmt.Fprintln(opts.out(), path)
	}
	return nil
}

// Bookmarks prints the saved query expressions matching search, newest first
func Bookmarks(opts Options, marks *bookmarks.Manager, search string, format string) error {
	list, err := marks.Search(search)
	if err != nil {
		return err
	}

	switch format {
	case "", "text":
		for _, b := range list {
			fmt.Fprintf(opts.out(), "%d\t%s\n", b.ID, b.Expression)
		}
		return nil
	default:
		return writeFormatted(opts.out(), list, format)
	}
}

func formatEntry(entry types.SaveEntry) string {
	line := fmt.Sprintf("%s  %-7s  %s  %d records  %s  %dms",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		entry.Status,
		entry.ContainerPath,
		entry.RecordCount,
		history.FormatSize(entry.BytesWritten),
		entry.DurationMs)
	if entry.Error != "" {
		line += "  " + entry.Error
	}
	return line
}

// writeFormatted encodes v as json or yaml
func writeFormatted(w io.Writer, v any, format string) error {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q (use json or yaml)", format)
}
