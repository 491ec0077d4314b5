//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // DEBLOAT_HOME: history, metrics, extensions/
	CatalogDir   string // main catalog source
	ExtensionDir string // one user-local extension under HomeDir/extensions
}

// setupTestEnv creates isolated temp directories and sets environment
// variables so every debloat path is sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("integration catalog commands are written for sh")
	}

	home := t.TempDir()
	env := &testEnv{
		HomeDir:      home,
		CatalogDir:   filepath.Join(t.TempDir(), "catalog"),
		ExtensionDir: filepath.Join(home, "extensions", "acme"),
	}

	t.Setenv("DEBLOAT_HOME", env.HomeDir)
	t.Setenv("DEBLOAT_HISTORY", "")
	t.Setenv("DEBLOAT_EXTENSIONS", "")

	return env
}

// setupCatalog writes a catalog in three formats plus a presets file and
// one extension manifest. Commands leave a marker file in stateDir so tests
// can observe execution order.
func setupCatalog(t *testing.T, env *testEnv, stateDir string) {
	t.Helper()

	writeFile(t, filepath.Join(env.CatalogDir, "apps.json"), `[
  {
    "id": "xbox",
    "name": "Xbox App",
    "safe": true,
    "command": "echo xbox >> `+stateDir+`/log",
    "rollback_command": "echo restore-xbox >> `+stateDir+`/log",
    "match_pattern": "Microsoft.XboxApp"
  },
  {
    "id": "weather",
    "name": "Weather",
    "safe": true,
    "command": "echo weather >> `+stateDir+`/log; echo 'package is in use' >&2; exit 1",
    "rollback_command": null,
    "match_pattern": "*BingWeather*"
  }
]
`)

	writeFile(t, filepath.Join(env.CatalogDir, "privacy.yaml"), `format_version: "1.1.0"
category: privacy
items:
  - id: telemetry
    name: Telemetry
    description: Stop diagnostic data upload
    safe: false
    command: echo telemetry >> `+stateDir+`/log
    match_pattern: DiagTrack
`)

	writeFile(t, filepath.Join(env.CatalogDir, "services.toml"), `category = "services"

[[items]]
id = "fax"
name = "Fax service"
safe = true
command = "echo fax >> `+stateDir+`/log"
match_pattern = "Fax"
`)

	writeFile(t, filepath.Join(env.CatalogDir, "presets.yaml"), `presets:
  - id: everyday
    name: Everyday
    description: Safe removals
    items: [xbox, fax, extra]
`)

	writeFile(t, filepath.Join(env.ExtensionDir, "system.yaml"), `items:
  - id: extra
    name: Extra
    safe: true
    command: echo extra >> `+stateDir+`/log
    match_pattern: Contoso.Extra
`)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readLines returns the non-empty lines of path.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
