package catalog

import "fmt"

// IntegrityKind classifies an IntegrityError.
type IntegrityKind string

const (
	KindDuplicateID IntegrityKind = "duplicate-id"
	KindMalformed   IntegrityKind = "malformed"
)

// IntegrityError reports a catalog that cannot be used as a whole. It is
// returned at load time and is never retried.
type IntegrityError struct {
	Kind   IntegrityKind
	ID     string
	Source string
	Detail string
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("catalog integrity: %s", e.Kind)
	if e.ID != "" {
		msg += fmt.Sprintf(" entry %q", e.ID)
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
