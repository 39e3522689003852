// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/martyrology/internal/index"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the indexed days to YAML or JSON",
	Long: `Export writes the indexed days (or one month with --month) to
<index-dir>/export.yaml or export.json.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	month, _ := cmd.Flags().GetInt("month")

	store, err := index.NewStore(loadConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), month)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), month)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().Int("month", 0, "export only one month (1-12)")

	rootCmd.AddCommand(exportCmd)
}
