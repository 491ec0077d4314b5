package catalog

import "fmt"

// Preset is a named selection of entry ids.
type Preset struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Items       []string `json:"items" yaml:"items"`
}

// FindPreset returns the preset with the given id.
func FindPreset(presets []Preset, id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("preset %q not found", id)
}

// ExpandPreset returns the preset's ids that exist in the store, in preset
// order. Ids the catalog does not know are returned separately so callers
// can report them.
func (s *Store) ExpandPreset(p Preset) (ids []string, unknown []string) {
	seen := make(map[string]bool, len(p.Items))
	for _, id := range p.Items {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.index[id]; ok {
			ids = append(ids, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	return ids, unknown
}
