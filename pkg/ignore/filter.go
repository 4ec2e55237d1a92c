// Package ignore decides which entries are left out of snapshots, comparisons
// and copies.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/sdejongh/linksnap/pkg/models"
)

// wildcards switch a filter to glob mode when found in any pattern
const wildcards = "*?["

// Filter matches entry basenames against a fixed set of names or glob patterns.
// A Filter is immutable once built and safe to share across recursive calls.
// The nil Filter matches nothing.
type Filter struct {
	patterns []string
	exact    map[string]struct{}
	glob     bool
}

// New builds a filter from the given patterns. Empty patterns are dropped,
// duplicates are kept once, order is preserved.
//
// If no pattern contains a wildcard, matching is exact set membership. If any
// pattern does, every pattern is evaluated as a shell glob.
func New(patterns []string) *Filter {
	f := &Filter{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, seen := f.exact[p]; seen {
			continue
		}
		f.exact[p] = struct{}{}
		f.patterns = append(f.patterns, p)
		if strings.ContainsAny(p, wildcards) {
			f.glob = true
		}
	}
	return f
}

// Parse builds a filter from a comma-delimited list such as "test,logs,*.exe"
func Parse(list string) *Filter {
	if strings.TrimSpace(list) == "" {
		return New(nil)
	}
	return New(strings.Split(list, ","))
}

// Patterns returns a copy of the configured patterns
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}

// Empty reports whether the filter has no patterns
func (f *Filter) Empty() bool {
	return f == nil || len(f.patterns) == 0
}

// GlobMode reports whether patterns are evaluated as globs
func (f *Filter) GlobMode() bool {
	return f != nil && f.glob
}

// Match reports whether the basename of path is excluded. Directory
// components above the basename never participate.
func (f *Filter) Match(path string) bool {
	if f.Empty() {
		return false
	}
	name := filepath.Base(path)

	if !f.glob {
		_, ok := f.exact[name]
		return ok
	}

	for _, pattern := range f.patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			// malformed pattern, fall back to a literal comparison
			matched = pattern == name
		}
		if matched {
			return true
		}
	}
	return false
}

// FilterNames returns the names that are not excluded
func (f *Filter) FilterNames(names []string) []string {
	if f.Empty() {
		return append([]string(nil), names...)
	}
	var kept []string
	for _, name := range names {
		if !f.Match(name) {
			kept = append(kept, name)
		}
	}
	return kept
}

// FilterComparison returns a new comparison with excluded names removed from
// every category. The input is left untouched.
func (f *Filter) FilterComparison(c models.DirComparison) models.DirComparison {
	return c.Without(f.Match)
}
