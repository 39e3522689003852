// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/martyrology/internal/index"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search the indexed body paragraphs",
	Long: `Search looks for the text in the Latin and English side of every indexed
body paragraph. Matching is by substring and ignores ASCII case. Run
"martyrology index" first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetInt("month")
	if month < 0 || month > 12 {
		return fmt.Errorf("month %d out of range 1-12", month)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := index.NewStore(loadConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), index.QueryOptions{
		Query:      strings.Join(args, " "),
		Month:      month,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-32s  %-3s  %s\n", "Rank", "Day", "#", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-32s  %-3d  %s\n", i+1, truncate(r.Path, 32), r.Position, truncate(r.Latin, 56))
		fmt.Fprintf(w, "%-4s  %-32s  %-3s  %s\n", "", "", "", truncate(r.English, 56))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().Int("month", 0, "restrict to one month (1-12)")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
