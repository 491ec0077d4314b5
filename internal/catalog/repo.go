package catalog

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/debloatkit/debloat/internal/config"
)

const (
	// freshnessFile is the name of the timestamp marker file.
	freshnessFile = ".catalog-updated"

	// DefaultMaxAge is the default staleness threshold (7 days).
	DefaultMaxAge = 7 * 24 * time.Hour

	// tmpSuffix is appended to the target dir during atomic clone.
	tmpSuffix = ".tmp"

	// sparsePath is the only directory checked out of the catalog repo.
	sparsePath = "catalog/"
)

// RepoURL returns the catalog repository URL, checking (in order):
// 1. DEBLOAT_CATALOG_REPO_URL env var
// 2. config key "catalog_repo"
// 3. branding.CatalogRepoURL()
func RepoURL() string {
	if v := os.Getenv(branding.EnvVar("CATALOG_REPO_URL")); v != "" {
		return v
	}
	if v := config.Get(config.KeyCatalogRepo); v != "" {
		return v
	}
	return branding.CatalogRepoURL()
}

// Clone performs a shallow clone of the catalog into targetDir, preferring
// a sparse checkout of catalog/ and falling back to a full shallow clone on
// older git. The clone lands in a .tmp sibling first and is renamed into
// place only on success.
func Clone(ctx context.Context, targetDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	repoURL := RepoURL()
	tmpDir := targetDir + tmpSuffix

	_ = os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Dir(tmpDir), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if err := trySparseClone(ctx, tmpDir, repoURL); err != nil {
		_ = os.RemoveAll(tmpDir)
		if err := git(ctx, "", "clone", "--depth=1", repoURL, tmpDir); err != nil {
			_ = os.RemoveAll(tmpDir)
			return fmt.Errorf("cloning catalog: %w", err)
		}
	}

	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("removing existing catalog dir: %w", err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing catalog clone: %w", err)
	}

	WriteFreshnessMarker(targetDir)
	return nil
}

// Update pulls the latest catalog into repoDir, cloning first when the
// directory is not a git checkout yet.
func Update(ctx context.Context, repoDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(repoDir, ".git")); os.IsNotExist(err) {
		return Clone(ctx, repoDir)
	}

	if err := git(ctx, repoDir, "pull", "--depth=1", "--rebase"); err != nil {
		return fmt.Errorf("pulling catalog updates: %w", err)
	}

	WriteFreshnessMarker(repoDir)
	return nil
}

// WriteFreshnessMarker writes the current Unix timestamp to the freshness file.
func WriteFreshnessMarker(repoDir string) {
	markerPath := filepath.Join(repoDir, freshnessFile)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	_ = os.WriteFile(markerPath, []byte(ts), 0644)
}

// ReadFreshnessMarker reads the timestamp from the freshness file.
// Returns zero time if the file doesn't exist or can't be parsed.
func ReadFreshnessMarker(repoDir string) time.Time {
	data, err := os.ReadFile(filepath.Join(repoDir, freshnessFile))
	if err != nil {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// IsStale returns true if the catalog was last updated more than maxAge ago
// or has never been updated.
func IsStale(repoDir string, maxAge time.Duration) bool {
	lastUpdated := ReadFreshnessMarker(repoDir)
	if lastUpdated.IsZero() {
		return true
	}
	return time.Since(lastUpdated) > maxAge
}

func trySparseClone(ctx context.Context, targetDir, repoURL string) error {
	if err := git(ctx, "", "clone", "--depth=1", "--sparse", "--no-checkout", repoURL, targetDir); err != nil {
		return fmt.Errorf("sparse clone: %w", err)
	}
	if err := git(ctx, targetDir, "sparse-checkout", "set", sparsePath); err != nil {
		return fmt.Errorf("sparse-checkout set: %w", err)
	}
	if err := git(ctx, targetDir, "checkout"); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// git runs one git subcommand in dir and folds its combined output into
// the error.
func git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
