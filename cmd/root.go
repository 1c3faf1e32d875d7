// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/atollk/geoguessr-scripts/config"
	"github.com/atollk/geoguessr-scripts/logging"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "geoguessr-scripts",
	Short: "Scrapers that turn GeoGuessr reference sites into offline study material",
	Long: `geoguessr-scripts crawls the Learnable Meta site into an Anki flashcard
package and exports Plonkit guide pages as Markdown, PDF, or JSON.

Usage:
  geoguessr-scripts anki [flags]
  geoguessr-scripts maps
  geoguessr-scripts guide export <page> [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log_level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log_format", "", "Log format: console, json")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. Command-line flags
// override the config file's logging section.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	format := cfg.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}

	log, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
