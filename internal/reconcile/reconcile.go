package reconcile

import (
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/inventory"
)

// Entry is a catalog entry annotated with its install status at the time
// of the Reconcile call that produced it.
type Entry struct {
	catalog.Entry
	Installed bool `json:"installed"`
}

// Reconcile reports, for each entry in order, whether any installed record
// satisfies its match pattern under policy. A nil policy means Substring.
// The result has the same length and order as entries.
func Reconcile(entries []catalog.Entry, installed []inventory.Record, policy MatchPolicy) []Entry {
	if policy == nil {
		policy = Substring{}
	}

	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Entry: e, Installed: anyMatch(policy, e.MatchPattern, installed)}
	}
	return out
}

func anyMatch(policy MatchPolicy, pattern string, installed []inventory.Record) bool {
	for _, rec := range installed {
		if policy.Matches(pattern, rec) {
			return true
		}
	}
	return false
}

// Filter returns the entries whose Installed field equals installed.
func Filter(entries []Entry, installed bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Installed == installed {
			out = append(out, e)
		}
	}
	return out
}
