package discovery

import (
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter filters spec files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters spec files by name pattern using wildcard matching.
// Supports patterns like "*login.test" or "*checkout*"; a pattern without
// wildcards is a case-insensitive fuzzy match ("chkout" finds "checkout.test").
func (f *Filter) FilterByName(specs []string, pattern string) []string {
	if pattern == "" {
		return specs
	}

	var filtered []string
	for _, spec := range specs {
		if matchName(filepath.Base(spec), pattern) {
			filtered = append(filtered, spec)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return fuzzy.MatchFold(pattern, name)
	}

	// Fall back to an ordered substring match for patterns like "*pay*card*"
	rest := name
	matchedPart := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		matchedPart = true
	}
	return matchedPart
}
