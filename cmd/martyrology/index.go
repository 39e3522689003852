// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/martyrology/internal/build"
	"github.com/pdiddy/martyrology/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Extract all pages and store the days in the SQLite index",
	Long: `Index extracts every page under the source directory and stores the
days in <index-dir>/martyrology.db. Days whose extracted content has not
changed since the last run are skipped; changed days are replaced; days
whose page no longer exists are removed. When no page yields a day the
index is left untouched.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	w := cmd.OutOrStdout()

	days, summary, err := build.New(cfg.Build, log).Days()
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		fmt.Fprintf(w, "warning: %d page(s) could not be read\n", summary.Failed)
	}
	if len(days) == 0 {
		fmt.Fprintln(w, "No documents parsed. Check mart01..mart12 folders.")
		return nil
	}

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(cmd.Context(), days, w)
	return err
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
