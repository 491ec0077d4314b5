package cli

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/history"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/reconcile"
	"github.com/debloatkit/debloat/internal/runner"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing directories and tighten permissions")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that debloat can run on this host",
	Long: `Run diagnostic checks: the command runner for this platform, the catalog
sources, the installed-package query, the match policy and the state
directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		d := &doctor{w: out}

		d.checkRunner()
		d.checkCatalog()
		d.checkInventory(cmd)
		d.checkHistory()
		userdata.CheckHome(out, doctorFix)

		if d.failures > 0 {
			fmt.Fprintln(out, color.RedString("\n%d check(s) failed.", d.failures))
			return fmt.Errorf("doctor found %d problem(s)", d.failures)
		}
		fmt.Fprintln(out, color.GreenString("\nAll checks passed."))
		return nil
	},
}

type doctor struct {
	w        io.Writer
	failures int
	runner   runner.Runner
}

func (d *doctor) ok(format string, a ...interface{}) {
	fmt.Fprintf(d.w, "  [ OK ] "+format+"\n", a...)
}

func (d *doctor) warn(format string, a ...interface{}) {
	fmt.Fprintf(d.w, "  [WARN] "+format+"\n", a...)
}

func (d *doctor) fail(format string, a ...interface{}) {
	d.failures++
	fmt.Fprintf(d.w, "  [FAIL] "+format+"\n", a...)
}

func (d *doctor) checkRunner() {
	fmt.Fprintln(d.w, "Runner check:")
	r, err := newRunner()
	if err != nil {
		d.fail("%v", err)
		return
	}
	d.runner = r

	switch r.Name() {
	case runner.ShellNone:
		d.fail("no command runner on %s: %v", runtime.GOOS, runner.ErrUnsupportedPlatform)
		return
	case runner.ShellPowerShell:
		checkBinary(d, "powershell.exe")
	case runner.ShellSh:
		checkBinary(d, "sh")
	}
	if timeout := config.Duration(config.KeyTimeout); timeout > 0 {
		d.ok("per-command timeout %s", timeout)
	} else {
		d.warn("no per-command timeout")
	}
}

func checkBinary(d *doctor, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		d.fail("%s not found", name)
		return
	}
	d.ok("%s found at %s", name, path)
}

func (d *doctor) checkCatalog() {
	fmt.Fprintln(d.w, "Catalog check:")
	sources, err := catalogSources()
	if err != nil {
		d.fail("%v", err)
		return
	}
	for _, s := range sources {
		d.ok("source %s: %s", s.Name, s.BasePath)
	}
	store, err := manifest.LoadSources(sources)
	if err != nil {
		d.fail("%v", err)
		return
	}
	d.ok("%d entries loaded", store.Len())

	if _, err := manifest.LoadPresets(sources); err != nil {
		d.fail("presets: %v", err)
	}
	if _, err := reconcile.PolicyFor(config.Get(config.KeyMatchPolicy)); err != nil {
		d.fail("%v", err)
	}
}

func (d *doctor) checkInventory(cmd *cobra.Command) {
	fmt.Fprintln(d.w, "Inventory check:")
	if d.runner == nil {
		d.warn("skipped: no runner")
		return
	}
	inv, err := newInventory(d.runner)
	if err != nil {
		d.fail("%v", err)
		return
	}
	records, err := inv.Enumerate(cmd.Context())
	if err != nil {
		d.fail("%v", err)
		return
	}
	d.ok("%d installed packages reported", len(records))
}

func (d *doctor) checkHistory() {
	fmt.Fprintln(d.w, "History check:")
	entries, err := history.NewStore(userdata.GetHistoryPath()).List()
	if err != nil {
		d.fail("%v", err)
		return
	}
	d.ok("%d batches recorded", len(entries))
}
