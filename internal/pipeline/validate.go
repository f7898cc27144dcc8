package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"tmsync/internal/discovery"
	"tmsync/internal/domain"
	"tmsync/internal/parser"
	"tmsync/internal/specfile"
)

// ValidationError lists every spec file that failed to parse
type ValidationError struct {
	TotalFiles int
	Issues     []domain.FileIssue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d of %d spec file(s) failed validation", len(e.Issues), e.TotalFiles)
}

// Validated is the set of spec files cleared for upload
type Validated struct {
	Paths []string // Sorted
	Tests map[string]*domain.SpecTest
}

// Gate parses every spec file and only lets a fully valid set through
type Gate struct {
	store   *specfile.Store
	scanner *discovery.Scanner
	loader  *discovery.Loader
}

// NewGate creates a new Gate
func NewGate(store *specfile.Store, scanner *discovery.Scanner, loader *discovery.Loader) *Gate {
	return &Gate{store: store, scanner: scanner, loader: loader}
}

// Validate parses all spec files under the root. When any file has errors the
// result is nil and the error is a *ValidationError naming every failing file.
func (g *Gate) Validate() (*Validated, error) {
	paths, err := g.scanner.Scan(g.store.Root())
	if err != nil {
		return nil, err
	}

	tests, err := g.loader.LoadAll(paths)
	if err != nil {
		return nil, err
	}

	markDuplicateIdentities(paths, tests)

	var issues []domain.FileIssue
	for _, path := range paths {
		if test := tests[path]; test.HasErrors() {
			issues = append(issues, domain.FileIssue{
				FilePath: path,
				Errors:   parser.SortedErrors(test),
			})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{TotalFiles: len(paths), Issues: issues}
	}

	return &Validated{Paths: paths, Tests: tests}, nil
}

// markDuplicateIdentities flags files sharing an identity: they would overwrite
// the same remote test.
func markDuplicateIdentities(paths []string, tests map[string]*domain.SpecTest) {
	byID := make(map[string][]string)
	for _, path := range paths {
		if id := tests[path].ID; id != "" {
			byID[id] = append(byID[id], path)
		}
	}

	for _, group := range byID {
		if len(group) < 2 {
			continue
		}
		sort.Strings(group)
		for _, path := range group {
			var others []string
			for _, other := range group {
				if other != path {
					others = append(others, other)
				}
			}
			test := tests[path]
			line := test.IDLine
			if line == 0 {
				line = 1
			}
			msg := "identity is also used by " + strings.Join(others, ", ")
			if prev, ok := test.Errors[line]; ok {
				msg = prev + "; " + msg
			}
			test.Errors[line] = msg
		}
	}
}
