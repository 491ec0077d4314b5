package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/spf13/cobra"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List presets",
	Long:  `List the named selections defined in presets files of the catalog and its extensions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, sources, err := loadCatalog()
		if err != nil {
			return err
		}
		presets, err := manifest.LoadPresets(sources)
		if err != nil {
			return err
		}

		if presetsJSON {
			if presets == nil {
				presets = []catalog.Preset{}
			}
			return printJSON(cmd.OutOrStdout(), presets)
		}
		if len(presets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No presets defined.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tENTRIES\tDESCRIPTION")
		for _, p := range presets {
			known, unknown := store.ExpandPreset(p)
			count := fmt.Sprintf("%d", len(known))
			if len(unknown) > 0 {
				count += fmt.Sprintf(" (+%d missing: %s)", len(unknown), strings.Join(unknown, ","))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, count, p.Description)
		}
		return w.Flush()
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(presetsCmd)
}
