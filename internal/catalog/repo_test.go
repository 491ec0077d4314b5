package catalog

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestFreshnessMarker_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	if !ReadFreshnessMarker(dir).IsZero() {
		t.Fatal("expected zero time without marker")
	}
	if !IsStale(dir, DefaultMaxAge) {
		t.Error("missing marker should be stale")
	}

	WriteFreshnessMarker(dir)

	got := ReadFreshnessMarker(dir)
	if time.Since(got) > time.Minute {
		t.Errorf("marker time %v is not recent", got)
	}
	if IsStale(dir, DefaultMaxAge) {
		t.Error("fresh marker reported stale")
	}
}

func TestIsStale_OldMarker(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-8 * 24 * time.Hour).Unix()
	if err := os.WriteFile(filepath.Join(dir, freshnessFile), []byte(strconv.FormatInt(old, 10)), 0644); err != nil {
		t.Fatal(err)
	}
	if !IsStale(dir, DefaultMaxAge) {
		t.Error("8-day-old marker should be stale")
	}
}

func TestReadFreshnessMarker_Garbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, freshnessFile), []byte("yesterday"), 0644); err != nil {
		t.Fatal(err)
	}
	if !ReadFreshnessMarker(dir).IsZero() {
		t.Error("unparseable marker should read as zero time")
	}
}

func TestRepoURL_EnvOverride(t *testing.T) {
	t.Setenv("DEBLOAT_CATALOG_REPO_URL", "https://example.com/cat.git")
	if got := RepoURL(); got != "https://example.com/cat.git" {
		t.Errorf("RepoURL() = %q", got)
	}
}
