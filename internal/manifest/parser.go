package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// FormatFromPath returns the manifest format implied by a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// ParseFile reads, validates and decodes one manifest file into catalog
// entries. A manifest that fails validation is reported as a malformed
// catalog (*catalog.IntegrityError) naming the first issues found.
func ParseFile(path string) ([]catalog.Entry, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported manifest extension %q in %s", filepath.Ext(path), path)
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data, format, path)
}

// Parse validates and decodes manifest data. source names the data in
// errors and decides the default category for bare item arrays.
func Parse(data []byte, format Format, source string) ([]catalog.Entry, error) {
	doc, err := decodeRaw(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", source, err)
	}

	result, err := validateDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &catalog.IntegrityError{
			Kind:   catalog.KindMalformed,
			Source: source,
			Detail: result.Summary(),
		}
	}

	file, err := toFile(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", source, err)
	}

	defaultCategory := file.Category
	if defaultCategory == "" {
		defaultCategory = categoryFromFileName(source)
	}

	entries := make([]catalog.Entry, 0, len(file.Items))
	for _, item := range file.Items {
		entries = append(entries, item.toEntry(defaultCategory, source))
	}
	return entries, nil
}

// ParsePresetsFile reads a presets file.
func ParsePresetsFile(path string) ([]catalog.Preset, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported presets extension %q in %s", filepath.Ext(path), path)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := decodeRaw(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing presets %s: %w", path, err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting presets %s: %w", path, err)
	}

	var pf PresetsFile
	if err := json.Unmarshal(jsonData, &pf); err != nil {
		return nil, fmt.Errorf("decoding presets %s: %w", path, err)
	}
	for i, p := range pf.Presets {
		if p.ID == "" {
			return nil, fmt.Errorf("presets %s: preset #%d has no id", path, i+1)
		}
	}
	return pf.Presets, nil
}

func (it Item) toEntry(defaultCategory, source string) catalog.Entry {
	category := it.Category
	if category == "" {
		category = defaultCategory
	}
	e := catalog.Entry{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		Category:     catalog.Category(category),
		Safe:         it.Safe,
		Command:      it.Command,
		MatchPattern: it.MatchPattern,
		Source:       source,
	}
	if it.RollbackCommand != nil {
		e.RollbackCommand = *it.RollbackCommand
	}
	return e
}

// toFile converts a validated document into File, accepting both layouts.
func toFile(doc interface{}) (*File, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if _, isArray := doc.([]interface{}); isArray {
		var items []Item
		if err := json.Unmarshal(jsonData, &items); err != nil {
			return nil, err
		}
		return &File{Items: items}, nil
	}

	var f File
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// categoryFromFileName maps "…/apps.json" to "apps" when the stem is a
// known category.
func categoryFromFileName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if catalog.Category(stem).Valid() {
		return stem
	}
	return ""
}

// decodeRaw decodes any supported format into JSON-compatible values.
func decodeRaw(data []byte, format Format) (interface{}, error) {
	var raw interface{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshaling YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]interface{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("unmarshaling TOML: %w", err)
		}
		raw = table
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return normalize(raw), nil
}

// normalize recursively converts decoded values to JSON-compatible types.
// YAML may produce map[interface{}]interface{} for non-string keys.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalize(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalize(v)
		}
		return a
	case []map[string]interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalize(v)
		}
		return a
	default:
		return val
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
