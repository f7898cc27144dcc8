// Package specfile manages spec files under the spec root: naming, scaffolding and
// the create/truncate writes used by export.
package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tmsync/internal/config"
)

// ErrRootMissing is returned when the spec root directory does not exist
var ErrRootMissing = errors.New("spec root does not exist")

// Store resolves and creates spec files under a single root
type Store struct {
	root string
	ext  string
}

// NewStore creates a Store for the configured spec root
func NewStore(cfg *config.Config) *Store {
	return &Store{root: cfg.GetSpecRoot(), ext: cfg.Extension}
}

// Root returns the spec root
func (s *Store) Root() string {
	return s.root
}

// Extension returns the spec file extension
func (s *Store) Extension() string {
	return s.ext
}

// CheckRoot fails when the spec root is missing or is not a directory
func (s *Store) CheckRoot() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRootMissing, s.root)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootMissing, s.root)
	}
	return nil
}

// Resolve returns the path of name under the root, appending the extension if missing.
// Names resolving outside the root are rejected.
func (s *Store) Resolve(name string) (string, error) {
	path := filepath.Join(s.root, WithExtension(name, s.ext))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("spec name %q resolves outside %s", name, s.root)
	}
	return path, nil
}

// ExportPath returns the path a remote test is exported to
func (s *Store) ExportPath(id int, title string) (string, error) {
	return s.Resolve(ExportName(id, title))
}

// CreateScaffold creates a new spec file holding a fresh identity and the authoring
// instructions. An empty name gets a generated one. Existing files are never overwritten.
func (s *Store) CreateScaffold(name string) (string, error) {
	path, err := s.Resolve(NewName(name))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create spec dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create spec file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, scaffold, uuid.NewString()); err != nil {
		return "", fmt.Errorf("write spec file: %w", err)
	}
	return path, nil
}

// CreateTruncated opens path for writing, creating it or truncating existing content
func (s *Store) CreateTruncated(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create spec dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

const scaffold = `#! %s
# title:
# start_uri: /
# tags:
# browsers:
# ------------------------------------------------------------
# Describe the test in these comment lines.
#
# After a blank line write the steps. Each step is two lines:
# the action to perform, then the expected response.
# Separate steps with a blank line. Lines starting with # are ignored.
# Keep the "#!" line: it links this file to the remote test.
`
