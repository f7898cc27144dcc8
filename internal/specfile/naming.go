package specfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9 ]`)
	spaceRuns   = regexp.MustCompile(` +`)
)

// ExportName derives the file base name of an exported remote test:
// the zero-padded id followed by the sanitized title.
// Titles differing only in case or punctuation map to the same name.
func ExportName(id int, title string) string {
	slug := unsafeChars.ReplaceAllString(strings.ToLower(title), "")
	slug = spaceRuns.ReplaceAllString(strings.TrimSpace(slug), "_")
	return fmt.Sprintf("%010d_%s", id, slug)
}

// NewName returns name, or a fresh uuid when name is empty
func NewName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return uuid.NewString()
}

// WithExtension appends ext unless name already ends with it
func WithExtension(name, ext string) string {
	if strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}
