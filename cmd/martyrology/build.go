// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/martyrology/internal/build"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the LaTeX document from all month folders",
	Long: `Build discovers mart01/*.htm ... mart12/*.htm under the source directory
in path order, extracts every page that has a main table, and writes the
document to the output file. Pages that cannot be read are reported and
skipped. When no page yields a day, nothing is written.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	_, err := build.New(cfg.Build, log).Run(cmd.OutOrStdout())
	if errors.Is(err, build.ErrNoDocuments) {
		return nil
	}
	return err
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output LaTeX file (default: martyrology.tex)")
	buildCmd.Flags().String("title", "", "document title")

	_ = viper.BindPFlag("build.output", buildCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("build.title", buildCmd.Flags().Lookup("title"))

	rootCmd.AddCommand(buildCmd)
}
