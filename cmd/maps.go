// The maps command lists the maps the anki command would crawl.
package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the maps available on the Learnable Meta site",
	RunE:  runMaps,
}

func init() {
	rootCmd.AddCommand(mapsCmd)
}

func runMaps(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	maps, err := loadMaps(cmd.Context(), log, cfg)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Author", "Map ID", "Difficulty"})
	for _, m := range maps {
		t.AppendRow(table.Row{m.Name, m.Author, m.MapID, m.Difficulty})
	}
	t.Render()
	return nil
}
