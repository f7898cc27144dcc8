// Package identity embeds the local identity of a spec file into the free-text
// description of a remote test and reads it back.
//
// The identity lives on a marker line "!<uuid>". Lines are compared after removing
// leading "#"/whitespace noise and trailing "#" runs, so the marker survives being
// rendered as the "#! <uuid>" header comment of a spec file.
package identity

import (
	"strings"

	"github.com/google/uuid"

	"tmsync/internal/domain"
)

// Marker starts the identity line
const Marker = "!"

// Separator closes a synthesized header block
const Separator = "# ------------------------------------------------------------"

// NewID generates identities for tests exported without one. Replaced in tests.
var NewID = func() string {
	return uuid.NewString()
}

// CleanLines splits a description into lines stripped of comment noise
func CleanLines(description string) []string {
	if description == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, cleanLine(line))
	}
	return lines
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimRight(line, "#")
	line = strings.TrimLeft(line, "# \t")
	return strings.TrimSpace(line)
}

// Decode returns the identity carried by a description.
// ok is false when no marker line exists: the test was never exported with an
// identity, or the marker was removed.
func Decode(description string) (id string, ok bool) {
	for _, line := range CleanLines(description) {
		if id, ok := markerID(line); ok {
			return id, true
		}
	}
	return "", false
}

// IsMarker reports whether a cleaned line is an identity marker line
func IsMarker(line string) bool {
	return strings.HasPrefix(line, Marker)
}

func markerID(line string) (string, bool) {
	if !IsMarker(line) {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(line, Marker))
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// EncodeHeader renders the header comment block of the spec file exported for a remote test.
// When the description already carries an identity its lines pass through unchanged.
// Otherwise a fresh identity and the test's metadata are synthesized above the
// original description.
func EncodeHeader(test *domain.TestDetail) []string {
	lines := CleanLines(test.Description)
	if _, ok := Decode(test.Description); ok {
		return comment(lines)
	}

	header := comment([]string{
		Marker + " " + NewID(),
		strings.TrimSpace("title: " + test.Title),
		strings.TrimSpace("start_uri: " + test.StartURI),
		strings.TrimSpace("tags: " + strings.Join(test.Tags, ", ")),
		strings.TrimSpace("browsers: " + strings.Join(test.EnabledBrowsers(), ", ")),
	})
	header = append(header, Separator, "")
	return append(header, comment(trimBlank(lines))...)
}

// comment re-prefixes cleaned lines with "#"
func comment(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case line == "":
			out = append(out, "#")
		case IsMarker(line):
			out = append(out, "#"+line)
		default:
			out = append(out, "# "+line)
		}
	}
	return out
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
