package cli

import (
	"errors"
	"fmt"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/history"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	rollbackFlags batchFlags
	rollbackLast  bool
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback [id...]",
	Short: "Restore previously removed catalog entries",
	Long: `Run the rollback command of each named entry, in the order given.

Entries without a rollback command fail with "no rollback available"; the
rest still run. With --last, the entries of the most recent apply batch are
restored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackLast {
			if len(args) > 0 {
				return errors.New("--last cannot be combined with entry ids")
			}
			ids, err := lastAppliedIDs()
			if err != nil {
				return err
			}
			args = ids
		}
		if len(args) == 0 {
			return errors.New("name at least one entry id, or pass --last")
		}
		return runBatch(cmd, args, batch.ModeRollback, &rollbackFlags)
	},
}

func init() {
	rollbackFlags.register(rollbackCmd)
	rollbackCmd.Flags().BoolVar(&rollbackLast, "last", false, "Restore the entries of the most recent apply")
	rootCmd.AddCommand(rollbackCmd)
}

// lastAppliedIDs returns the successfully applied ids of the newest apply
// batch in history.
func lastAppliedIDs() ([]string, error) {
	entries, err := history.NewStore(userdata.GetHistoryPath()).List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Kind != history.KindApply {
			continue
		}
		failed := make(map[string]bool, len(e.Failed))
		for _, id := range e.Failed {
			failed[id] = true
		}
		var ids []string
		for _, id := range e.Items {
			if !failed[id] {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}
	return nil, fmt.Errorf("no apply batch in history")
}
