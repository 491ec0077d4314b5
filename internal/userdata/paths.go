package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/config"
)

// Directory and file name constants for the state directory layout.
const (
	HistoryFile     = "history.yaml"
	MetricsFile     = "debloat.prom"
	CatalogRepoDir  = "catalog-repo"
	CatalogDir      = "catalog"
	ExtensionsDir   = "extensions"
	PresetsBaseName = "presets"
)

// GetHomeRoot returns the state directory (~/.debloat, or DEBLOAT_HOME).
func GetHomeRoot() string {
	return config.Dir()
}

// GetHistoryPath returns the path of the batch history file.
// It checks the DEBLOAT_HISTORY environment variable first.
func GetHistoryPath() string {
	if v := os.Getenv(branding.EnvVar("HISTORY")); v != "" {
		return v
	}
	return filepath.Join(GetHomeRoot(), HistoryFile)
}

// GetCatalogRepoRoot returns the path to the catalog git repo directory.
// Checks DEBLOAT_CATALOG_REPO_DIR first, then falls back to ~/.debloat/catalog-repo/.
func GetCatalogRepoRoot() string {
	if v := os.Getenv(branding.EnvVar("CATALOG_REPO_DIR")); v != "" {
		return v
	}
	return filepath.Join(GetHomeRoot(), CatalogRepoDir)
}

// GetCatalogRoot returns the catalog/ subdirectory within the catalog repo.
// This is where the per-category manifest files live.
func GetCatalogRoot() string {
	return filepath.Join(GetCatalogRepoRoot(), CatalogDir)
}

// GetExtensionsRoot returns the path to the user-local extensions directory.
// Every subdirectory of it is an additional catalog source.
func GetExtensionsRoot() string {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v
	}
	return filepath.Join(GetHomeRoot(), ExtensionsDir)
}

// CatalogExists reports whether the cloned catalog directory holds at least
// one regular file.
func CatalogExists() (bool, error) {
	entries, err := os.ReadDir(GetCatalogRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading catalog directory: %w", err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return true, nil
		}
	}
	return false, nil
}
