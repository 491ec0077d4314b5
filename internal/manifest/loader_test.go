package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/debloatkit/debloat/internal/catalog"
)

func TestManifestFiles_SortedSkipsPresetsAndUnknown(t *testing.T) {
	files, err := ManifestFiles(testPath("valid"))
	if err != nil {
		t.Fatalf("ManifestFiles error: %v", err)
	}
	want := []string{"apps.json", "privacy.yaml", "services.toml"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want[i])
		}
	}
}

func TestLoadSources_BuildsStore(t *testing.T) {
	store, err := LoadSources([]Source{{Name: "catalog", BasePath: testPath("valid")}})
	if err != nil {
		t.Fatalf("LoadSources error: %v", err)
	}
	if store.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", store.Len())
	}
	if _, ok := store.Lookup("diagtrack"); !ok {
		t.Error("diagtrack missing from store")
	}
}

func TestLoadSources_DuplicateAcrossFiles(t *testing.T) {
	_, err := LoadSources([]Source{{Name: "dup", BasePath: testPath("dup")}})
	var ierr *catalog.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *catalog.IntegrityError, got %T: %v", err, err)
	}
	if ierr.Kind != catalog.KindDuplicateID || ierr.ID != "onedrive" {
		t.Errorf("got %+v, want duplicate onedrive", ierr)
	}
}

func TestLoadSources_DuplicateAcrossSources(t *testing.T) {
	_, err := LoadSources([]Source{
		{Name: "catalog", BasePath: testPath("valid")},
		{Name: "mirror", BasePath: testPath("valid")},
	})
	var ierr *catalog.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestLoadSources_MissingDirectory(t *testing.T) {
	if _, err := LoadSources([]Source{{Name: "catalog", BasePath: testPath("nope")}}); err == nil {
		t.Fatal("expected error for missing catalog directory")
	}
	if _, err := LoadSources(nil); err == nil {
		t.Fatal("expected error for no sources")
	}
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets([]Source{
		{Name: "catalog", BasePath: testPath("valid")},
		{Name: "dup", BasePath: testPath("dup")},
	})
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	if len(presets) != 2 {
		t.Errorf("len(presets) = %d, want 2", len(presets))
	}

	_, err = LoadPresets([]Source{
		{Name: "a", BasePath: testPath("valid")},
		{Name: "b", BasePath: testPath("valid")},
	})
	if err == nil {
		t.Error("expected error for preset defined twice")
	}
}

func TestExtensionSources(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"acme", ".hidden", "zeta"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	sources := ExtensionSources(root)
	if len(sources) != 2 || sources[0].Name != "acme" || sources[1].Name != "zeta" {
		t.Errorf("ExtensionSources = %+v", sources)
	}

	if got := ExtensionSources(filepath.Join(root, "missing")); got != nil {
		t.Errorf("missing root should yield nil, got %+v", got)
	}
}
