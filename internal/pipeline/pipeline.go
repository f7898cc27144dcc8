// Package pipeline implements the export and upload passes between the spec root and
// the remote service, and the validation gate that guards uploads.
package pipeline

import (
	"path/filepath"
	"strings"

	"tmsync/internal/execution"
)

// ProgressFactory creates the progress reporter of a batch once its size is known
type ProgressFactory func(label string, total int) execution.Progress

func relName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
