package cli

import (
	"fmt"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
)

var initNoCatalog bool

func init() {
	initCmd.Flags().BoolVar(&initNoCatalog, "no-catalog", false, "Do not clone the catalog repository")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the state directory and fetch the catalog",
	Long: `Create ~/.debloat/ with a commented default config.yaml, then clone the
catalog repository unless catalog_dir is set or --no-catalog is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initializing %s\n", userdata.GetHomeRoot())
		if err := userdata.InitHome(out); err != nil {
			return fmt.Errorf("initializing state directory: %w", err)
		}

		catalogDir, err := config.Path(config.KeyCatalogDir)
		if err != nil {
			return err
		}
		if initNoCatalog || userdata.DetectMode(catalogDir) == userdata.ModeLocal {
			return nil
		}
		if exists, _ := userdata.CatalogExists(); exists {
			return nil
		}

		repoRoot := userdata.GetCatalogRepoRoot()
		fmt.Fprintf(out, "\nCloning catalog to %s...\n", repoRoot)
		if err := catalog.Clone(cmd.Context(), repoRoot); err != nil {
			// Non-fatal: the state directory is ready.
			fmt.Fprintf(out, "Warning: catalog clone failed: %v\n", err)
			fmt.Fprintf(out, "Run '%s catalog update' later to retry.\n", branding.CLIName())
			return nil
		}
		fmt.Fprintln(out, "Catalog cloned successfully.")
		return nil
	},
}
