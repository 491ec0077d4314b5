package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/fatih/color"
)

var (
	okMark   = color.GreenString("✓")
	failMark = color.RedString("✗")
)

func installedLabel(installed bool) string {
	if installed {
		return color.GreenString("installed")
	}
	return "not installed"
}

func safetyLabel(safe bool) string {
	if safe {
		return "yes"
	}
	return color.YellowString("no (!)")
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// progressPrinter writes one line per finished operation.
func progressPrinter(w io.Writer) batch.ProgressFunc {
	return func(index, total int, req batch.Request, res *batch.Result) {
		if res == nil {
			return
		}
		mark := okMark
		if !res.Success {
			mark = failMark
		}
		fmt.Fprintf(w, "[%d/%d] %s %s (%s)\n", index+1, total, mark, req.EntryID, req.Mode)
	}
}

// printReport writes a summary line and the error of each failed item.
func printReport(w io.Writer, report batch.Report) {
	failed := report.Failed()
	fmt.Fprintf(w, "\n%d succeeded, %d failed\n", len(report.Items)-len(failed), len(failed))
	for _, it := range failed {
		fmt.Fprintf(w, "  %s %s: %s\n", failMark, it.Request.EntryID, firstLine(it.Result.ErrorMessage()))
	}
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
