package extension

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Status describes one installed extension.
type Status struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Branch string `json:"branch"`
	State  string `json:"state"` // "ok", "dirty", "local", "error"
}

// Add clones gitURL as extension name into root/<name>/.
func Add(ctx context.Context, root, name, gitURL, branch string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid extension name %q", name)
	}
	if branch == "" {
		branch = "main"
	}

	targetDir := filepath.Join(root, name)
	if _, err := os.Stat(targetDir); err == nil {
		return fmt.Errorf("extension %q already exists at %s", name, targetDir)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("creating extensions directory: %w", err)
	}

	if _, err := git(ctx, "", "clone", "--depth=1", "-b", branch, gitURL, targetDir); err != nil {
		_ = os.RemoveAll(targetDir)
		return err
	}
	return nil
}

// Remove deletes extension name from root.
func Remove(root, name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid extension name %q", name)
	}
	targetDir := filepath.Join(root, name)
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		return fmt.Errorf("extension %q not found at %s", name, targetDir)
	}
	if err := os.RemoveAll(targetDir); err != nil {
		return fmt.Errorf("removing extension directory: %w", err)
	}
	return nil
}

// List returns the status of every extension directory under root. A
// missing root is no extensions.
func List(ctx context.Context, root string) ([]Status, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading extensions directory: %w", err)
	}

	var result []Status
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(root, entry.Name())
		branch, state := status(ctx, path)
		result = append(result, Status{Name: entry.Name(), Path: path, Branch: branch, State: state})
	}
	return result, nil
}

// Sync pulls every git-backed extension under root. Directories that are
// not git checkouts are left alone.
func Sync(ctx context.Context, root string) error {
	statuses, err := List(ctx, root)
	if err != nil {
		return err
	}

	var errs []string
	for _, s := range statuses {
		if s.State == "local" {
			continue
		}
		if _, err := git(ctx, s.Path, "pull", "--rebase"); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("some extensions failed to sync:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func status(ctx context.Context, path string) (branch, state string) {
	if _, err := os.Stat(filepath.Join(path, ".git")); os.IsNotExist(err) {
		return "-", "local"
	}
	branch, err := git(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "unknown", "error"
	}
	porcelain, err := git(ctx, path, "status", "--porcelain")
	if err != nil {
		return branch, "error"
	}
	if porcelain != "" {
		return branch, "dirty"
	}
	return branch, "ok"
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", args[0], err, trimmed)
	}
	return trimmed, nil
}
