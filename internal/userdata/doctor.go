package userdata

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/debloatkit/debloat/internal/config"
	"github.com/debloatkit/debloat/internal/platform"
)

// CheckHome reports on the state directory and the files debloat keeps in
// it. When fix is true, missing directories are created and loose
// permissions are tightened.
func CheckHome(w io.Writer, fix bool) {
	root := GetHomeRoot()
	fmt.Fprintln(w, "State directory check:")

	if _, err := os.Stat(root); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if fix {
			if err := InitHome(w); err != nil {
				fmt.Fprintf(w, "  [FAIL] %v\n", err)
			}
		} else {
			fmt.Fprintln(w, "         Run 'debloat init' to create")
		}
		return
	}

	checkDirWithPerm(w, root, platform.DirPerm, fix)
	checkFile(w, config.FilePath(), "config", fix)
	checkFile(w, GetHistoryPath(), "history", fix)
}

func checkDirWithPerm(w io.Writer, path string, expectedPerm os.FileMode, fix bool) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [FAIL] %s exists but is not a directory\n", path)
		return
	}
	checkPerm(w, path, info.Mode().Perm(), expectedPerm, fix)
}

func checkFile(w io.Writer, path, label string, fix bool) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [INFO] no %s file at %s\n", label, path)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}
	checkPerm(w, path, info.Mode().Perm(), platform.FilePerm, fix)
}

func checkPerm(w io.Writer, path string, actual, expected os.FileMode, fix bool) {
	// Windows reports synthetic permission bits.
	if runtime.GOOS == "windows" || actual&^expected == 0 {
		fmt.Fprintf(w, "  [ OK ] %s\n", path)
		return
	}
	fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, actual, expected)
	if fix {
		if err := platform.Chmod(path, expected); err != nil {
			fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, expected)
	}
}
