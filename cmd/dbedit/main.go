package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/studiowebux/dbedit/internal/bookmarks"
	"github.com/studiowebux/dbedit/internal/cli"
	"github.com/studiowebux/dbedit/internal/config"
	"github.com/studiowebux/dbedit/internal/history"
	"github.com/studiowebux/dbedit/internal/logging"
	"github.com/studiowebux/dbedit/internal/recent"
	"github.com/studiowebux/dbedit/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// settings is loaded before any command runs
var settings config.Settings

var rootCmd = &cobra.Command{
	Use:   "dbedit [file]",
	Short: "dbedit - key/value editor for SQLite containers",
	Long: `dbedit edits the values of a single-table SQLite key/value container.

Run without arguments to start the TUI, or give a file to open it right away.
Structured (JSON) values are shown indented and stored compact.

Examples:
  dbedit                                   # Start interactive TUI
  dbedit save.db                           # Open save.db in the TUI
  dbedit keys save.db                      # List keys
  dbedit get save.db player                # Print one value
  dbedit get save.db player -q 'stats.hp'  # Query a structured value
  echo '{"hp":10}' | dbedit set save.db player -
  dbedit export save.db -o yaml            # Dump every record
  dbedit --table Items --key-column name keys inventory.db`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return tui.Run(settings, path)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys <file>",
	Short: "List the keys of a container in table order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Keys(cmd.Context(), cliOptions(nil), args[0], flagKeysOutput)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <file> [key]",
	Short: "Print one value",
	Long: `Print one value in display form (structured values indented).

Without a key an interactive picker lists the keys.
--query takes a JMESPath expression, or $(command) to pipe the value through a
shell command.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions{
			Options: cliOptions(nil),
			Path:    args[0],
			Raw:     flagRaw,
			Query:   flagQuery,
		}
		if len(args) > 1 {
			opts.Key = args[1]
		}
		return cli.Get(cmd.Context(), opts)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <key> <value|->",
	Short: "Replace one value and save the container",
	Long: `Replace one value and save the container. A value of - reads stdin.

Structured values are stored compact. The save is recorded in the history.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := history.NewManager(config.DatabasePath)
		if err != nil {
			slog.Warn("Save history disabled", "err", err)
			hist = nil
		} else {
			defer hist.Close()
		}

		return cli.Set(cmd.Context(), cli.SetOptions{
			Options: cliOptions(hist),
			Path:    args[0],
			Key:     args[1],
			Value:   args[2],
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Print every record as json or yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Export(cmd.Context(), cliOptions(nil), args[0], flagExportOutput, flagSave)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent saves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := history.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer hist.Close()
		return cli.History(cliOptions(nil), hist, flagLimit, flagHistoryOutput)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently opened containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mru := recent.NewManager(config.RecentFile)
		if err := mru.Load(); err != nil {
			return err
		}
		return cli.Recent(cliOptions(nil), mru)
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [search]",
	Short: "Show saved query expressions",
	Long: `Show the query expressions that ran successfully in the TUI, newest first.

Use --delete to remove one by its ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		marks, err := bookmarks.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer marks.Close()

		if flagDeleteBookmark > 0 {
			if err := marks.Delete(flagDeleteBookmark); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Deleted bookmark %d\n", flagDeleteBookmark)
			return nil
		}

		search := ""
		if len(args) > 0 {
			search = args[0]
		}
		return cli.Bookmarks(cliOptions(nil), marks, search, flagBookmarksOutput)
	},
}

// Global flags
var (
	flagLogLevel    string
	flagTable       string
	flagKeyColumn   string
	flagValueColumn string
)

// Command flags
var (
	flagKeysOutput      string
	flagExportOutput    string
	flagHistoryOutput   string
	flagBookmarksOutput string
	flagDeleteBookmark  int64
	flagSave            string
	flagRaw             bool
	flagQuery           string
	flagLimit           int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", "", "Table holding the records")
	rootCmd.PersistentFlags().StringVar(&flagKeyColumn, "key-column", "", "Column holding the keys")
	rootCmd.PersistentFlags().StringVar(&flagValueColumn, "value-column", "", "Column holding the values")

	keysCmd.Flags().StringVarP(&flagKeysOutput, "output", "o", "text", "Output format (text/json/yaml)")

	getCmd.Flags().BoolVarP(&flagRaw, "raw", "r", false, "Print the stored form")
	getCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression or $(command)")

	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "json", "Output format (json/yaml)")
	exportCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Write the export to a file")

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries")
	historyCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "text", "Output format (text/json/yaml)")

	bookmarksCmd.Flags().StringVarP(&flagBookmarksOutput, "output", "o", "text", "Output format (text/json/yaml)")
	bookmarksCmd.Flags().Int64VarP(&flagDeleteBookmark, "delete", "d", 0, "Delete the bookmark with this ID")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(bookmarksCmd)
}

// setup initializes configuration, settings and logging for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	loaded, err := config.LoadSettings()
	if err != nil {
		return err
	}
	settings = loaded

	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}
	if flagTable != "" {
		settings.Table = flagTable
	}
	if flagKeyColumn != "" {
		settings.KeyColumn = flagKeyColumn
	}
	if flagValueColumn != "" {
		settings.ValueColumn = flagValueColumn
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	logging.Level.Set(level)
	logging.SetupStderr()
	return nil
}

// cliOptions builds the options shared by the CLI commands. A nil journal
// leaves saves unrecorded.
func cliOptions(hist *history.Manager) cli.Options {
	opts := cli.Options{Settings: settings}
	if hist != nil {
		opts.Journal = hist
	}
	return opts
}
