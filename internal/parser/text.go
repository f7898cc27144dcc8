package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"tmsync/internal/domain"
	"tmsync/internal/identity"
)

// Messages recorded in SpecTest.Errors
const (
	ErrMissingResponse = "step action has no response on the next line"
	ErrMissingIdentity = "missing identity marker line (#! <uuid>)"
	ErrDuplicateMarker = "more than one identity marker line"
	ErrInvalidIdentity = "identity marker has no identity"
)

// TextParser parses the plain-text spec format
type TextParser struct{}

// NewTextParser creates a new TextParser
func NewTextParser() *TextParser {
	return &TextParser{}
}

type line struct {
	num  int
	text string
}

// Parse splits a spec file into its header and its steps.
// The header is the leading run of comment and blank lines up to the last blank
// line before the first step; comment lines after that point belong to the body
// and are ignored.
func (p *TextParser) Parse(path string, text string) *domain.SpecTest {
	test := &domain.SpecTest{
		Path:   path,
		Errors: make(map[int]string),
	}

	var lines []line
	for i, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		lines = append(lines, line{num: i + 1, text: strings.TrimRight(l, " \t")})
	}

	headerEnd := headerLength(lines)
	p.parseHeader(test, lines[:headerEnd])
	p.parseBody(test, lines[headerEnd:])

	if test.Title == "" && path != "" {
		test.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return test
}

func isComment(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "#")
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func headerLength(lines []line) int {
	lastBlank := -1
	for i, l := range lines {
		switch {
		case isBlank(l.text):
			lastBlank = i
		case isComment(l.text):
		default:
			if lastBlank >= 0 {
				return lastBlank + 1
			}
			return i
		}
	}
	return len(lines)
}

func (p *TextParser) parseHeader(test *domain.SpecTest, header []line) {
	var description []string
	markerLine := 0

	for _, l := range header {
		text := strings.TrimSpace(l.text)
		text = strings.TrimPrefix(text, "#")
		text = strings.TrimPrefix(text, " ")
		description = append(description, text)

		cleaned := strings.TrimSpace(strings.TrimLeft(text, "#"))
		if identity.IsMarker(cleaned) {
			if markerLine != 0 {
				addError(test, l.num, ErrDuplicateMarker)
				continue
			}
			markerLine = l.num
			test.IDLine = l.num
			id, ok := identity.Decode(cleaned)
			if !ok {
				addError(test, l.num, ErrInvalidIdentity)
				continue
			}
			test.ID = id
			continue
		}

		key, value, ok := strings.Cut(cleaned, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "title":
			test.Title = value
		case "start_uri":
			test.StartURI = value
		case "tags":
			test.Tags = splitList(value)
		case "browsers":
			test.Browsers = splitList(value)
		}
	}

	if markerLine == 0 {
		addError(test, 1, ErrMissingIdentity)
	}
	test.Description = strings.Join(trimBlank(description), "\n")
}

func (p *TextParser) parseBody(test *domain.SpecTest, body []line) {
	var action *line
	for i := range body {
		l := body[i]
		switch {
		case isComment(l.text):
			continue
		case isBlank(l.text):
			if action != nil {
				addError(test, action.num, ErrMissingResponse)
				action = nil
			}
		case action == nil:
			action = &body[i]
		default:
			test.Steps = append(test.Steps, domain.Step{
				Action:   strings.TrimSpace(action.text),
				Response: strings.TrimSpace(l.text),
			})
			action = nil
		}
	}
	if action != nil {
		addError(test, action.num, ErrMissingResponse)
	}
}

func addError(test *domain.SpecTest, num int, msg string) {
	if prev, ok := test.Errors[num]; ok {
		msg = prev + "; " + msg
	}
	test.Errors[num] = msg
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// SortedErrors returns the errors of a test ordered by line
func SortedErrors(test *domain.SpecTest) []domain.LineError {
	nums := make([]int, 0, len(test.Errors))
	for n := range test.Errors {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out := make([]domain.LineError, 0, len(nums))
	for _, n := range nums {
		out = append(out, domain.LineError{Line: n, Message: test.Errors[n]})
	}
	return out
}
