package cli

import (
	"fmt"
	"os"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/logging"
	"github.com/debloatkit/debloat/internal/userdata"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagAllowEmptyInventory bool
	restoreLogger           = func() {}
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` inventories optional OS components and applications, shows which are
installed, and removes or restores them in ordered batches. Every operation in
a batch runs even when an earlier one fails, and each gets its own result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		restore, err := logging.Setup(cmd.ErrOrStderr(), config.Get(config.KeyLogLevel), config.Get(config.KeyLogFormat))
		if err != nil {
			return err
		}
		restoreLogger = restore

		// Skip the freshness banner for commands that manage the catalog themselves.
		switch cmd.Name() {
		case "catalog", "update", "init", "version", "config", "get", "set":
			return nil
		}

		catalogDir, _ := config.Path(config.KeyCatalogDir)
		if userdata.DetectMode(catalogDir) == userdata.ModeRepo {
			repoRoot := userdata.GetCatalogRepoRoot()
			if exists, _ := userdata.CatalogExists(); exists && catalog.IsStale(repoRoot, catalog.DefaultMaxAge) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Catalog is more than 7 days old. Run '%s catalog update'.\n", branding.CLIName())
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("catalog-dir", "", "Read catalog manifests from this directory instead of the catalog repo")
	pf.String("inventory", "", "Read installed packages from a JSON/YAML file instead of querying the system")
	pf.BoolVar(&flagAllowEmptyInventory, "allow-empty-inventory", false, "Treat a failed installed-package query as nothing installed")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (text, json)")
	bindFlags()
}

// bindFlags lets the persistent flags override config and environment.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(config.KeyCatalogDir, pf.Lookup("catalog-dir"))
	_ = viper.BindPFlag(config.KeyInventoryFile, pf.Lookup("inventory"))
	_ = viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	restoreLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
