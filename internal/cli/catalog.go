package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	catalogCmd.AddCommand(catalogUpdateCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog of known components",
	Long: `Manage the catalog of known components and the commands that remove them.

By default the catalog is a shallow clone of the catalog repository's
catalog/ directory, stored at ~/.debloat/catalog-repo/.

When catalog_dir is set (flag --catalog-dir, DEBLOAT_CATALOG_DIR or the
config file), manifests are read from that directory instead.`,
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the catalog to the latest version",
	Long: `Pull the latest catalog from the remote repository.

This runs git pull in ~/.debloat/catalog-repo/. If the catalog hasn't been
cloned yet, it is cloned first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogDir, err := config.Path(config.KeyCatalogDir)
		if err != nil {
			return err
		}
		if userdata.DetectMode(catalogDir) == userdata.ModeLocal {
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog is read from %s.\n", catalogDir)
			fmt.Fprintln(cmd.OutOrStdout(), "Update that directory yourself, or unset catalog_dir to use the catalog repo.")
			return nil
		}

		repoRoot := userdata.GetCatalogRepoRoot()
		fmt.Fprintf(cmd.OutOrStdout(), "Updating catalog at %s...\n", repoRoot)
		if err := catalog.Update(cmd.Context(), repoRoot); err != nil {
			return fmt.Errorf("updating catalog: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog updated successfully.")
		return nil
	},
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog status and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		catalogDir, err := config.Path(config.KeyCatalogDir)
		if err != nil {
			return err
		}
		mode := userdata.DetectMode(catalogDir)
		fmt.Fprintf(out, "Mode:         %s\n", mode)

		if mode == userdata.ModeLocal {
			fmt.Fprintf(out, "Catalog path: %s\n", catalogDir)
			printEntryCount(cmd, catalogDir)
			return nil
		}

		repoRoot := userdata.GetCatalogRepoRoot()
		fmt.Fprintf(out, "Catalog path: %s\n", userdata.GetCatalogRoot())
		fmt.Fprintf(out, "Repo URL:     %s\n", catalog.RepoURL())

		exists, _ := userdata.CatalogExists()
		if !exists {
			fmt.Fprintln(out, "Status:       not installed")
			fmt.Fprintf(out, "\nRun '%s catalog update' or '%s init' to install.\n", branding.CLIName(), branding.CLIName())
			return nil
		}
		printEntryCount(cmd, userdata.GetCatalogRoot())

		lastUpdated := catalog.ReadFreshnessMarker(repoRoot)
		if lastUpdated.IsZero() {
			fmt.Fprintln(out, "Last updated: unknown")
		} else {
			age := time.Since(lastUpdated).Truncate(time.Minute)
			fmt.Fprintf(out, "Last updated: %s (%s ago)\n", lastUpdated.Format(time.RFC3339), age)
		}

		if catalog.IsStale(repoRoot, catalog.DefaultMaxAge) {
			fmt.Fprintf(out, "Status:       stale (run '%s catalog update')\n", branding.CLIName())
		} else {
			fmt.Fprintln(out, "Status:       up to date")
		}
		return nil
	},
}

func printEntryCount(cmd *cobra.Command, dir string) {
	entries, err := manifest.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Entries:      unreadable (%v)\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Entries:      %d\n", len(entries))
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate catalog manifest files",
	Long: `Validate manifest files against the catalog schema and check that ids
are unique across them.

Each path may be a file or a directory of manifests. Without arguments the
configured catalog sources are validated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := validationTargets(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no manifest files found")
		}
		return validateManifests(cmd, files)
	},
}

func validationTargets(args []string) ([]string, error) {
	var dirs []string
	var files []string

	if len(args) == 0 {
		sources, err := catalogSources()
		if err != nil {
			return nil, err
		}
		for _, s := range sources {
			dirs = append(dirs, s.BasePath)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
		} else {
			files = append(files, arg)
		}
	}

	for _, d := range dirs {
		found, err := manifest.ManifestFiles(d)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func validateManifests(cmd *cobra.Command, files []string) error {
	out := cmd.OutOrStdout()
	failures := 0
	var all []catalog.Entry

	for _, f := range files {
		result, err := manifest.ValidateFile(f)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %s: %v\n", f, err)
			failures++
			continue
		}
		if !result.Valid {
			fmt.Fprintf(out, "  [FAIL] %s\n", f)
			for _, issue := range result.Issues {
				path := issue.Path
				if path == "" {
					path = "(root)"
				}
				fmt.Fprintf(out, "         %s: %s\n", path, issue.Message)
			}
			failures++
			continue
		}
		entries, err := manifest.ParseFile(f)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %s: %v\n", f, err)
			failures++
			continue
		}
		fmt.Fprintf(out, "  [ OK ] %s (%d entries)\n", f, len(entries))
		all = append(all, entries...)
	}

	if _, err := catalog.NewStore(all); err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		failures++
	}

	if failures > 0 {
		return fmt.Errorf("%d validation problem(s)", failures)
	}
	fmt.Fprintf(out, "\n%d files, %d entries valid.\n", len(files), len(all))
	return nil
}
