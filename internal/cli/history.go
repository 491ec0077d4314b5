package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/debloatkit/debloat/internal/history"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	historyJSON  bool
	historyLimit int
)

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Show at most this many batches (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show executed batches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := history.NewStore(userdata.GetHistoryPath()).List()
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}

		if historyJSON {
			if entries == nil {
				entries = []history.Entry{}
			}
			return printJSON(cmd.OutOrStdout(), entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WHEN\tTYPE\tITEMS\tFAILED")
		for _, e := range entries {
			failed := "-"
			if len(e.Failed) > 0 {
				failed = strings.Join(e.Failed, ",")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Kind, strings.Join(e.Items, ","), failed)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the batch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.NewStore(userdata.GetHistoryPath()).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}
