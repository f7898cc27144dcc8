package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner scans for spec files in a directory
type Scanner struct {
	ext      string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner matching files with ext, skipping the given directories
func NewScanner(ext string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{ext: ext, skipDirs: skipMap}
}

// Scan finds all spec files under root, recursing into subdirectories.
// Paths are returned sorted.
func (s *Scanner) Scan(root string) ([]string, error) {
	var specFiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("spec path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("spec path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), s.ext) {
			specFiles = append(specFiles, path)
		}
		return nil
	})

	sort.Strings(specFiles)
	return specFiles, err
}
