package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "store",
	Short:   "Print the whole store",
	Long: `Print the whole store to stdout.

The json format is the on-disk layout of the json backend, so its output
can be used as a store file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		state, err := jira.ReadDB()
		exitOnError(err)

		if err := writeExport(os.Stdout, state, format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// writeExport encodes state to w in the named format.
func writeExport(w io.Writer, state *models.State, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	rootCmd.AddCommand(exportCmd)
}
