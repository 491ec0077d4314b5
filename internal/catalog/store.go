package catalog

import (
	"fmt"
	"strings"
)

// Store is the loaded catalog. It is safe for concurrent reads and is
// never mutated after NewStore returns.
type Store struct {
	entries []Entry
	index   map[string]int
}

// NewStore validates entries and builds a Store preserving their order.
// Any duplicate id or malformed entry fails the whole catalog with an
// *IntegrityError.
func NewStore(entries []Entry) (*Store, error) {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		if prev, ok := s.index[e.ID]; ok {
			detail := "id already defined"
			if src := s.entries[prev].Source; src != "" {
				detail = fmt.Sprintf("id already defined in %s", src)
			}
			return nil, &IntegrityError{Kind: KindDuplicateID, ID: e.ID, Source: e.Source, Detail: detail}
		}
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}

	return s, nil
}

func checkEntry(e Entry) error {
	malformed := func(detail string) error {
		return &IntegrityError{Kind: KindMalformed, ID: e.ID, Source: e.Source, Detail: detail}
	}
	switch {
	case strings.TrimSpace(e.ID) == "":
		return malformed("empty id")
	case strings.TrimSpace(e.Command) == "":
		return malformed("empty command")
	case e.Category != "" && !e.Category.Valid():
		return malformed(fmt.Sprintf("unknown category %q", e.Category))
	}
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all entries in load order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the entry with the given id.
func (s *Store) Lookup(id string) (Entry, bool) {
	i, ok := s.index[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// ByCategory returns the entries of one category in load order.
func (s *Store) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
