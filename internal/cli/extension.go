package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/extension"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
)

var extensionBranch string

func init() {
	extensionAddCmd.Flags().StringVar(&extensionBranch, "branch", "main", "Git branch to track")

	extensionCmd.AddCommand(extensionAddCmd)
	extensionCmd.AddCommand(extensionRemoveCmd)
	extensionCmd.AddCommand(extensionListCmd)
	extensionCmd.AddCommand(extensionSyncCmd)
	rootCmd.AddCommand(extensionCmd)
}

var extensionCmd = &cobra.Command{
	Use:     "extension",
	Aliases: []string{"ext"},
	Short:   "Manage catalog extensions",
	Long: `Manage extension repositories that add entries and presets to the catalog.

Extensions are cloned to ~/.debloat/extensions/<name>/ and their manifest
files are merged into the catalog. An id defined both in the catalog and in
an extension is an error.`,
}

var extensionAddCmd = &cobra.Command{
	Use:   "add <name> <git-url>",
	Short: "Add an extension repository",
	Long: `Clone a git repository as a catalog extension.

Example:
  debloat extension add acme https://github.com/acme/debloat-extras.git
  debloat extension add mine https://github.com/me/entries.git --branch develop`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, gitURL := args[0], args[1]
		fmt.Fprintf(cmd.OutOrStdout(), "Adding extension %q from %s (branch: %s)...\n", name, gitURL, extensionBranch)

		if err := extension.Add(cmd.Context(), userdata.GetExtensionsRoot(), name, gitURL, extensionBranch); err != nil {
			return fmt.Errorf("adding extension: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extension %q added successfully.\n", name)
		return nil
	},
}

var extensionRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := extension.Remove(userdata.GetExtensionsRoot(), args[0]); err != nil {
			return fmt.Errorf("removing extension: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extension %q removed.\n", args[0])
		return nil
	},
}

var extensionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extensions and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := extension.List(cmd.Context(), userdata.GetExtensionsRoot())
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No extensions installed. Add one with '%s extension add <name> <git-url>'.\n", branding.CLIName())
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tBRANCH\tSTATUS\tENTRIES")
		for _, s := range statuses {
			count := "?"
			if entries, err := manifest.LoadDir(s.Path); err == nil {
				count = fmt.Sprintf("%d", len(entries))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Branch, s.State, count)
		}
		return w.Flush()
	},
}

var extensionSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the latest changes of every extension",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := extension.Sync(cmd.Context(), userdata.GetExtensionsRoot()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Extensions synced.")
		return nil
	},
}
