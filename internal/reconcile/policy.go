package reconcile

import (
	"fmt"
	"strings"

	"github.com/debloatkit/debloat/internal/inventory"
	"golang.org/x/text/cases"
)

// MatchPolicy decides whether an installed record satisfies a catalog
// match pattern. Implementations must be pure.
type MatchPolicy interface {
	Name() string
	Matches(pattern string, rec inventory.Record) bool
}

// Policy names accepted by PolicyFor.
const (
	PolicySubstring = "substring"
	PolicyExact     = "exact"
)

// PolicyFor returns the policy registered under name. An empty name
// selects Substring.
func PolicyFor(name string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicySubstring:
		return Substring{}, nil
	case PolicyExact:
		return Exact{}, nil
	default:
		return nil, fmt.Errorf("unknown match policy %q: supported policies are %q and %q",
			name, PolicySubstring, PolicyExact)
	}
}

// NormalizePattern case-folds pattern and drops every '*' and surrounding
// whitespace. A pattern that normalizes to "" matches nothing.
func NormalizePattern(pattern string) string {
	return strings.TrimSpace(fold(strings.ReplaceAll(pattern, "*", "")))
}

func fold(s string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(s)
}

// Substring matches when the normalized pattern contains, or is contained
// in, the folded identifier or display name of the record.
type Substring struct{}

// Name implements MatchPolicy.
func (Substring) Name() string { return PolicySubstring }

// Matches implements MatchPolicy.
func (Substring) Matches(pattern string, rec inventory.Record) bool {
	p := NormalizePattern(pattern)
	if p == "" {
		return false
	}
	return contains(p, fold(rec.Identifier)) || contains(p, fold(rec.DisplayName))
}

func contains(pattern, field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(field, pattern) || strings.Contains(pattern, field)
}

// Exact matches when the normalized pattern equals the folded identifier.
type Exact struct{}

// Name implements MatchPolicy.
func (Exact) Name() string { return PolicyExact }

// Matches implements MatchPolicy.
func (Exact) Matches(pattern string, rec inventory.Record) bool {
	p := NormalizePattern(pattern)
	if p == "" {
		return false
	}
	return p == strings.TrimSpace(fold(rec.Identifier))
}
