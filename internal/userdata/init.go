package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/platform"
)

// Default content for config.yaml. Every key is commented out so the
// built-in defaults apply until the user opts in.
const defaultConfigContent = `# debloat configuration. Environment variables DEBLOAT_<KEY> override these.
# catalog_dir: ~/debloat-catalog   # read manifests from here instead of the catalog repo
# catalog_repo: https://github.com/debloatkit/debloat-catalog.git
# shell: auto                      # auto, powershell, sh or none
# timeout: 10m                     # per-command limit, 0 disables
# match_policy: substring          # substring or exact
# inventory_file: ""               # JSON/YAML list of installed packages
# metrics_textfile: ""             # write Prometheus metrics here after each batch
# log_level: warn
# log_format: text
`

// InitHome creates the state directory layout and a commented default
// config file. Existing items are left untouched and reported as skipped.
func InitHome(w io.Writer) error {
	root := GetHomeRoot()

	if err := ensureDir(w, root, platform.DirPerm); err != nil {
		return err
	}
	if err := ensureDir(w, GetExtensionsRoot(), 0755); err != nil {
		return err
	}
	if err := ensureFile(w, config.FilePath(), defaultConfigContent, platform.FilePerm); err != nil {
		return err
	}
	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), platform.DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
