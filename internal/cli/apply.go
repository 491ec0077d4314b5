package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/reconcile"
	"github.com/spf13/cobra"
)

// batchFlags are shared by apply and rollback.
type batchFlags struct {
	yes     bool
	refresh bool
	json    bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Run without asking for confirmation")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "Print the install status of the touched entries afterwards")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the batch report as JSON")
}

var (
	applyFlags       batchFlags
	applyPreset      string
	applyInteractive bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [id...]",
	Short: "Remove catalog entries",
	Long: `Run the removal command of each selected entry, in the order given.

Entries can be named as arguments, taken from a preset with --preset, or
picked from a list with --interactive. Every entry runs even if an earlier
one fails; the command exits non-zero when any operation failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, batch.ModeNormal, &applyFlags)
	},
}

func init() {
	applyFlags.register(applyCmd)
	applyCmd.Flags().StringVar(&applyPreset, "preset", "", "Apply every entry of a preset")
	applyCmd.Flags().BoolVarP(&applyInteractive, "interactive", "i", false, "Pick entries from a list")
	rootCmd.AddCommand(applyCmd)
}

func runBatch(cmd *cobra.Command, args []string, mode batch.Mode, flags *batchFlags) error {
	out := cmd.OutOrStdout()
	progressOut := out
	if flags.json {
		progressOut = cmd.ErrOrStderr()
	}

	s, err := newSession(progressPrinter(progressOut))
	if err != nil {
		return err
	}

	ids, err := selectIDs(cmd, s, args, mode)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "Nothing selected.")
		return nil
	}

	if !flags.yes {
		ok, err := confirmBatch(cmd, s.store, ids, mode)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	reqs := batch.Requests(mode, ids...)
	report, err := s.engine.ExecuteBatch(cmd.Context(), reqs)
	if err != nil {
		return err
	}
	s.finish(report)

	if flags.json {
		if err := printJSON(out, report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if flags.refresh {
		if err := printRefreshed(cmd, progressOut, s, ids); err != nil {
			slog.Warn("could not refresh status", "error", err)
		}
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(report.Items))
	}
	return nil
}

// selectIDs gathers ids from arguments, then the preset, then the
// interactive picker, keeping first occurrences in that order.
func selectIDs(cmd *cobra.Command, s *session, args []string, mode batch.Mode) ([]string, error) {
	ids := append([]string(nil), args...)

	if mode == batch.ModeNormal && applyPreset != "" {
		presets, err := manifest.LoadPresets(s.sources)
		if err != nil {
			return nil, err
		}
		p, err := catalog.FindPreset(presets, applyPreset)
		if err != nil {
			return nil, err
		}
		known, unknown := s.store.ExpandPreset(p)
		if len(unknown) > 0 {
			slog.Warn("preset names entries missing from the catalog", "preset", p.ID, "ids", strings.Join(unknown, ","))
		}
		ids = append(ids, known...)
	}

	if mode == batch.ModeNormal && applyInteractive {
		status, err := s.engine.ReconcileStatus(cmd.Context())
		if err != nil {
			return nil, err
		}
		picked, err := pickEntries("Select entries to remove", status)
		if err != nil {
			return nil, err
		}
		ids = append(ids, picked...)
	}

	return dedupe(ids), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func confirmBatch(cmd *cobra.Command, store *catalog.Store, ids []string, mode batch.Mode) (bool, error) {
	if !isInteractive() {
		return false, fmt.Errorf("refusing to run %d operations without confirmation: pass --yes", len(ids))
	}

	var unsafe []string
	for _, id := range ids {
		if e, ok := store.Lookup(id); ok && !e.Safe {
			unsafe = append(unsafe, id)
		}
	}
	if len(unsafe) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: these entries are marked unsafe: %s\n", strings.Join(unsafe, ", "))
	}

	verb := "Remove"
	if mode == batch.ModeRollback {
		verb = "Restore"
	}
	return confirm(fmt.Sprintf("%s %d entries (%s)?", verb, len(ids), strings.Join(ids, ", ")))
}

func printRefreshed(cmd *cobra.Command, w io.Writer, s *session, ids []string) error {
	status, err := s.engine.ReconcileStatus(cmd.Context())
	if err != nil {
		return err
	}
	touched := make(map[string]bool, len(ids))
	for _, id := range ids {
		touched[id] = true
	}
	var entries []reconcile.Entry
	for _, e := range status {
		if touched[e.ID] {
			entries = append(entries, e)
		}
	}

	fmt.Fprintln(w, "\nCurrent status:")
	for _, e := range entries {
		fmt.Fprintf(w, "  %s: %s\n", e.ID, installedLabel(e.Installed))
	}
	return nil
}
