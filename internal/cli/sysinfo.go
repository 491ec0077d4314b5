package cli

import (
	"fmt"

	"github.com/debloatkit/debloat/internal/sysinfo"
	"github.com/spf13/cobra"
)

var sysinfoJSON bool

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Show OS version, build number and user",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		info, err := sysinfo.Collect(cmd.Context(), r)
		if err != nil {
			return err
		}

		if sysinfoJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OS version:   %s\n", info.OSVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "Build number: %s\n", info.BuildNumber)
		fmt.Fprintf(cmd.OutOrStdout(), "User:         %s\n", info.Username)
		return nil
	},
}

func init() {
	sysinfoCmd.Flags().BoolVar(&sysinfoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(sysinfoCmd)
}
