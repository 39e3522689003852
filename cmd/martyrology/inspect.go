// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/martyrology/internal/extract"
	"github.com/pdiddy/martyrology/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.htm>...",
	Short: "Print the days extracted from individual pages as YAML",
	Long: `Inspect runs the extractor on the given pages and prints the resulting
days (heading, preface, letter grids, body pairs) as YAML. Pages without a
main table are reported and left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args, log)
	},
}

func inspect(w io.Writer, paths []string, log logrus.FieldLogger) error {
	days := make([]types.Day, 0, len(paths))
	for _, path := range paths {
		day, ok, err := extract.ParseFile(path)
		if err != nil {
			return err
		}
		if !ok {
			log.WithField("path", path).Warn("no main table")
			continue
		}
		days = append(days, day)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(days); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
