package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atollk/geoguessr-scripts/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configFmtCmd = &cobra.Command{
	Use:   "fmt <overrides.json>",
	Short: "Reformat an overrides file in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.FormatOverridesFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configFmtCmd)
}
