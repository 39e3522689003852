// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the martyrology CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/martyrology/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log carries diagnostics; user-facing output goes to the command's writer.
var log = logrus.New()

// rootCmd is the base command for the martyrology CLI. Without a
// subcommand it builds the LaTeX document.
var rootCmd = &cobra.Command{
	Use:   "martyrology",
	Short: "Convert the legacy martyrology HTML pages into one LaTeX document",
	Long: `martyrology reads the day pages in mart01 ... mart12 under the source
directory, extracts the bilingual preface, letter tables and body paragraphs,
and writes a single parallel-text LaTeX document.

Subcommands inspect single pages and maintain a searchable SQLite index of
the extracted days.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	RunE: runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./martyrology.yaml or ~/.config/martyrology/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log per-page diagnostics")
	rootCmd.PersistentFlags().String("source-dir", types.DefaultSourceDir, "directory containing mart01 ... mart12")
	rootCmd.PersistentFlags().String("index-dir", types.DefaultIndexDir, "directory for martyrology.db and exports")

	_ = viper.BindPFlag("build.source_dir", rootCmd.PersistentFlags().Lookup("source-dir"))
	_ = viper.BindPFlag("index.index_dir", rootCmd.PersistentFlags().Lookup("index-dir"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetDefault("build.output", types.DefaultOutput)
	viper.SetDefault("build.title", types.DefaultTitle)
	viper.SetDefault("index.max_results", types.DefaultMaxResults)
	viper.SetDefault("log_level", "info")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("martyrology")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "martyrology"))
		}
	}

	viper.SetEnvPrefix("MARTYROLOGY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// setupLogging applies log_level, raised to debug by --verbose.
func setupLogging() error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	if viper.GetBool("verbose") && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return nil
}

// loadConfig resolves the effective configuration from flags, environment,
// config file and defaults.
func loadConfig() types.Config {
	return types.Config{
		Build: types.BuildConfig{
			SourceDir: viper.GetString("build.source_dir"),
			Output:    viper.GetString("build.output"),
			Title:     viper.GetString("build.title"),
		}.WithDefaults(),
		Index: types.IndexConfig{
			IndexDir:   viper.GetString("index.index_dir"),
			MaxResults: viper.GetInt("index.max_results"),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
