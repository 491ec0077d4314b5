package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestInitHome_CreatesStructure(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "state")
	t.Setenv("DEBLOAT_HOME", tmp)
	t.Setenv("DEBLOAT_EXTENSIONS", "")

	var buf bytes.Buffer
	if err := InitHome(&buf); err != nil {
		t.Fatalf("InitHome failed: %v", err)
	}

	assertDirExists(t, tmp)
	assertDirExists(t, filepath.Join(tmp, ExtensionsDir))

	data, err := os.ReadFile(filepath.Join(tmp, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.Contains(string(data), "# match_policy: substring") {
		t.Error("default config does not document match_policy")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(tmp)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("state dir permissions = %o, want 700", perm)
		}
	}

	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Error("expected [ OK ] in output")
	}
}

func TestInitHome_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("DEBLOAT_HOME", tmp)
	t.Setenv("DEBLOAT_EXTENSIONS", "")

	if err := InitHome(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	custom := []byte("shell: sh\n")
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), custom, 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := InitHome(&buf); err != nil {
		t.Fatalf("second InitHome failed: %v", err)
	}
	if strings.Contains(buf.String(), "[ OK ]") {
		t.Errorf("second run created something:\n%s", buf.String())
	}
	data, _ := os.ReadFile(filepath.Join(tmp, "config.yaml"))
	if string(data) != string(custom) {
		t.Error("existing config was overwritten")
	}
}

func TestCheckHome(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "state")
	t.Setenv("DEBLOAT_HOME", tmp)
	t.Setenv("DEBLOAT_EXTENSIONS", "")
	t.Setenv("DEBLOAT_HISTORY", "")

	var buf bytes.Buffer
	CheckHome(&buf, false)
	if !strings.Contains(buf.String(), "[MISS]") {
		t.Errorf("expected [MISS] for absent state dir, got:\n%s", buf.String())
	}

	buf.Reset()
	CheckHome(&buf, true)
	assertDirExists(t, tmp)

	buf.Reset()
	CheckHome(&buf, false)
	out := buf.String()
	if strings.Contains(out, "[FAIL]") || strings.Contains(out, "[WARN]") {
		t.Errorf("unexpected problems after fix:\n%s", out)
	}
	if !strings.Contains(out, "no history file") {
		t.Errorf("expected history info line, got:\n%s", out)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %s to exist: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", path)
	}
}
