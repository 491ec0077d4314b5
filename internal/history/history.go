// Package history keeps a capped, newest-first log of executed batches in
// ~/.debloat/history.yaml.
package history

import (
	"fmt"
	"os"
	"time"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/platform"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// MaxEntries is how many batches the log keeps.
const MaxEntries = 100

// Kind says whether a batch applied or rolled back entries.
type Kind string

const (
	KindApply    Kind = "apply"
	KindRollback Kind = "rollback"
)

// Entry records one executed batch.
type Entry struct {
	ID        string    `yaml:"id" json:"id"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Kind      Kind      `yaml:"type" json:"type"`
	Items     []string  `yaml:"items" json:"items"`
	Failed    []string  `yaml:"failed,omitempty" json:"failed,omitempty"`
}

type file struct {
	Entries []Entry `yaml:"entries"`
}

// Store reads and writes the history file at Path.
type Store struct {
	Path string

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// EntryFor summarizes a report. The kind is rollback when every request
// is a rollback.
func EntryFor(report batch.Report) Entry {
	kind := KindApply
	if len(report.Items) > 0 {
		kind = KindRollback
		for _, it := range report.Items {
			if it.Request.Mode != batch.ModeRollback {
				kind = KindApply
				break
			}
		}
	}
	return Entry{
		Kind:   kind,
		Items:  batch.IDs(report.Items),
		Failed: batch.IDs(report.Failed()),
	}
}

// List returns entries newest first. A missing file is an empty history.
func (s *Store) List() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", s.Path, err)
	}
	return f.Entries, nil
}

// Append stores e at the front of the log, assigning its id and timestamp
// when unset, and drops entries beyond MaxEntries.
func (s *Store) Append(e Entry) (Entry, error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}

	entries = append([]Entry{e}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if err := s.write(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Clear empties the log.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (s *Store) write(entries []Entry) error {
	data, err := yaml.Marshal(file{Entries: entries})
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := platform.WriteFileAtomic(s.Path, data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
