package branding

import "testing"

func TestEmbeddedIdentity(t *testing.T) {
	if got := CLIName(); got != "debloat" {
		t.Errorf("CLIName() = %q, want %q", got, "debloat")
	}
	if got := HomeDir(); got != ".debloat" {
		t.Errorf("HomeDir() = %q, want %q", got, ".debloat")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("catalog_dir"); got != "DEBLOAT_CATALOG_DIR" {
		t.Errorf("EnvVar() = %q, want %q", got, "DEBLOAT_CATALOG_DIR")
	}
}
