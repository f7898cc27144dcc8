package discovery

import (
	"fmt"
	"os"

	"tmsync/internal/domain"
	"tmsync/internal/parser"
)

// Loader reads spec files and parses them
type Loader struct {
	parser parser.Parser
}

// NewLoader creates a new Loader
func NewLoader(p parser.Parser) *Loader {
	return &Loader{parser: p}
}

// Load reads and parses a single spec file
func (l *Loader) Load(path string) (*domain.SpecTest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return l.parser.Parse(path, string(content)), nil
}

// LoadAll parses every file. Unreadable files abort the load.
func (l *Loader) LoadAll(paths []string) (map[string]*domain.SpecTest, error) {
	tests := make(map[string]*domain.SpecTest, len(paths))
	for _, path := range paths {
		test, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		tests[path] = test
	}
	return tests, nil
}

// IndexByID maps the identity of every parsed file to its path.
// Files without identity are left out; on duplicates the first path in order wins.
func IndexByID(paths []string, tests map[string]*domain.SpecTest) map[string]string {
	index := make(map[string]string)
	for _, path := range paths {
		test := tests[path]
		if test == nil || test.ID == "" {
			continue
		}
		if _, seen := index[test.ID]; !seen {
			index[test.ID] = path
		}
	}
	return index
}
