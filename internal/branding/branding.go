// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml in this package; Go's //go:embed bakes it into
// the binary so the CLI name, home directory and env prefix follow it.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GoModule       string `yaml:"go_module"`
	GitHubRepo     string `yaml:"github_repo"`
	CatalogRepoURL string `yaml:"catalog_repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is empty.
		defaults = brand{
			CLIName:        "debloat",
			DisplayName:    "Debloat",
			Description:    "Inventory and remove optional OS components",
			HomeDir:        ".debloat",
			EnvPrefix:      "DEBLOAT",
			GoModule:       "github.com/debloatkit/debloat",
			GitHubRepo:     "debloatkit/debloat",
			CatalogRepoURL: "https://github.com/debloatkit/debloat-catalog.git",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "debloat").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".debloat").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "DEBLOAT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// CatalogRepoURL returns the default git URL for catalog cloning.
func CatalogRepoURL() string { load(); return defaults.CatalogRepoURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "DEBLOAT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
