package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	listCategory     string
	listInstalled    bool
	listNotInstalled bool
	listJSON         bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries and whether each is installed",
	Long: `List every catalog entry with its install status.

Status is computed now from the installed-package list; nothing is cached
between runs.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category (apps, privacy, services, registry, updates, system)")
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "Show only installed entries")
	listCmd.Flags().BoolVar(&listNotInstalled, "not-installed", false, "Show only entries that are not installed")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listCategory != "" && !catalog.Category(listCategory).Valid() {
		return fmt.Errorf("unknown category %q", listCategory)
	}

	s, err := newSession(nil)
	if err != nil {
		return err
	}
	entries, err := s.engine.ReconcileStatus(cmd.Context())
	if err != nil {
		return err
	}

	entries = filterEntries(entries, catalog.Category(listCategory), listInstalled, listNotInstalled)

	if listJSON {
		if entries == nil {
			entries = []reconcile.Entry{}
		}
		return printJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching entries.")
		return nil
	}
	return printListTable(cmd, entries)
}

func filterEntries(entries []reconcile.Entry, category catalog.Category, installed, notInstalled bool) []reconcile.Entry {
	switch {
	case installed:
		entries = reconcile.Filter(entries, true)
	case notInstalled:
		entries = reconcile.Filter(entries, false)
	}
	if category == "" {
		return entries
	}
	var out []reconcile.Entry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func printListTable(cmd *cobra.Command, entries []reconcile.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSTATUS\tSAFE\tROLLBACK")
	for _, e := range entries {
		rollback := "-"
		if e.HasRollback() {
			rollback = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Category, installedLabel(e.Installed), safetyLabel(e.Safe), rollback)
	}
	return w.Flush()
}
