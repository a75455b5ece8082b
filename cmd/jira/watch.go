package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/jira-lite/internal/db"
	"github.com/mschirtzinger/jira-lite/internal/ui"
	"github.com/mschirtzinger/jira-lite/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: "store",
	Short:   "Re-print the epic list whenever the store changes",
	Long: `Print the epic list, then print it again each time another jira process
writes the store. Bursts of writes are collapsed into one refresh.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.DB.Backend == db.BackendMemory {
			fmt.Fprintf(os.Stderr, "Error: the memory backend has no file to watch\n")
			os.Exit(1)
		}
		quiet, _ := cmd.Flags().GetDuration("debounce")

		fw, err := watch.NewFileWatcher(cfg.DB.Path, sink.Logger("watch"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer fw.Stop()

		if err := fw.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		refresh := func() {
			state, err := jira.ReadDB()
			if err != nil {
				// A concurrent writer may be mid-write; the next event retries.
				fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarn("⚠"), err)
				return
			}
			fmt.Printf("\n%s %s\n", ui.RenderAccent("●"), ui.RenderMuted(time.Now().Format(time.TimeOnly)))
			ui.RenderEpicList(os.Stdout, state)
		}

		refresh()
		fmt.Printf("\nWatching %s (Ctrl+C to stop)...\n", cfg.DB.Path)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		err = fw.Run(ctx, quiet, func(watch.FileEvent) { refresh() })
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nStopped watching")
	},
}

func init() {
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "Quiet period before refreshing")
	rootCmd.AddCommand(watchCmd)
}
