package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/jira-lite/internal/config"
	"github.com/mschirtzinger/jira-lite/internal/db"
	"github.com/mschirtzinger/jira-lite/internal/logging"
	"github.com/mschirtzinger/jira-lite/internal/tracker"
	"github.com/mschirtzinger/jira-lite/internal/ui"
)

var (
	configFile string
	verbose    bool

	cfg    *config.Config
	sink   *logging.Sink
	closer io.Closer
	jira   *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "jira",
	Short: "Track epics and stories in a local store",
	Long: `jira keeps epics and the stories inside them in a single local store.

Every command loads the whole store, applies at most one change and writes
the store back. The default store is data/db.json; use --backend sqlite for
an embedded SQLite file or --backend memory for a throwaway session.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(config.Options{File: configFile, Flags: cmd.Flags()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ui.SetColor(cfg.UI.Color)
		sink = logging.NewSink(cfg.Log, verbose)

		var database db.Database
		database, closer, err = db.Open(db.Config{Backend: cfg.DB.Backend, Path: cfg.DB.Path})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		jira = tracker.New(database, sink.Logger("tracker"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closer != nil {
			_ = closer.Close()
		}
		if sink != nil {
			_ = sink.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./jira.yaml or ~/.config/jira/jira.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to the store (default: data/db.json)")
	rootCmd.PersistentFlags().String("backend", "", "Store backend: json, sqlite or memory")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: "items", Title: "Working With Items:"},
		&cobra.Group{ID: "store", Title: "Store:"},
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseID parses a positional id argument.
func parseID(kind, arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return uint32(id), nil
}

// exitOnError reports err and exits. Store failures also name the store so
// the user knows which file to inspect.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if db.IsFatal(err) {
		fmt.Fprintf(os.Stderr, "%s store %s (%s backend) could not be used\n",
			ui.RenderFail("✗"), cfg.DB.Path, cfg.DB.Backend)
	}
	os.Exit(1)
}

// mustParseID parses an id argument or exits.
func mustParseID(kind, arg string) uint32 {
	id, err := parseID(kind, arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return id
}
