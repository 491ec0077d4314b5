package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/debloatkit/debloat/internal/catalog"
)

// presetsStem is the base name reserved for presets files.
const presetsStem = "presets"

// Source is a directory of manifest files (the main catalog or an
// extension).
type Source struct {
	Name     string // e.g., "catalog", "acme-corp"
	BasePath string // absolute path to the directory
}

// ManifestFiles returns the manifest files directly inside dir, sorted by
// name. Presets files and unknown extensions are skipped.
func ManifestFiles(dir string) ([]string, error) {
	return listFiles(dir, func(stem string) bool { return stem != presetsStem })
}

// PresetFiles returns the presets files directly inside dir.
func PresetFiles(dir string) ([]string, error) {
	return listFiles(dir, func(stem string) bool { return stem == presetsStem })
}

func listFiles(dir string, keep func(stem string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := FormatFromPath(entry.Name()); !ok {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !keep(stem) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir loads every manifest in dir, in file name order.
func LoadDir(dir string) ([]catalog.Entry, error) {
	files, err := ManifestFiles(dir)
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, f := range files {
		loaded, err := ParseFile(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

// LoadSources loads all sources in order and builds the catalog store.
// Ids must be unique across sources.
func LoadSources(sources []Source) (*catalog.Store, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no catalog sources configured")
	}

	var all []catalog.Entry
	for _, src := range sources {
		entries, err := LoadDir(src.BasePath)
		if err != nil {
			return nil, fmt.Errorf("loading catalog source %q: %w", src.Name, err)
		}
		all = append(all, entries...)
	}
	return catalog.NewStore(all)
}

// LoadPresets collects presets from every source. Sources without a
// presets file contribute nothing.
func LoadPresets(sources []Source) ([]catalog.Preset, error) {
	var presets []catalog.Preset
	seen := make(map[string]string)

	for _, src := range sources {
		files, err := PresetFiles(src.BasePath)
		if err != nil {
			return nil, fmt.Errorf("loading presets from %q: %w", src.Name, err)
		}
		for _, f := range files {
			loaded, err := ParsePresetsFile(f)
			if err != nil {
				return nil, err
			}
			for _, p := range loaded {
				if prev, ok := seen[p.ID]; ok {
					return nil, fmt.Errorf("preset %q defined in both %s and %s", p.ID, prev, f)
				}
				seen[p.ID] = f
				presets = append(presets, p)
			}
		}
	}
	return presets, nil
}

// ExtensionSources returns one Source per non-hidden subdirectory of root.
// A missing root yields no sources.
func ExtensionSources(root string) []Source {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			sources = append(sources, Source{
				Name:     entry.Name(),
				BasePath: filepath.Join(root, entry.Name()),
			})
		}
	}
	return sources
}
