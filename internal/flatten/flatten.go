// Package flatten turns a remote element tree into the ordered step lines of a spec file.
package flatten

import (
	"fmt"
	"strings"

	"tmsync/internal/domain"
)

// UnsupportedElementError is returned for an element type the remote schema is not known to have.
// Continuing would silently drop steps from the exported file.
type UnsupportedElementError struct {
	Type  string
	Index int
}

func (e *UnsupportedElementError) Error() string {
	return fmt.Sprintf("unsupported element type %q at element %d", e.Type, e.Index)
}

// UnrepresentableStepError is returned for step text a spec file cannot hold: each of
// action and response must be a single non-blank line that does not read as a comment.
type UnrepresentableStepError struct {
	Index  int
	Field  string // "action" or "response"
	Reason string
}

func (e *UnrepresentableStepError) Error() string {
	return fmt.Sprintf("step at element %d: %s %s", e.Index, e.Field, e.Reason)
}

// Options controls rendering
type Options struct {
	// Verbose adds a "# step <n>" comment above every step
	Verbose bool
}

// Flatten renders elements depth-first, left to right. index is the running element
// counter threaded through nested tests; the next free index is returned.
// Steps are separated by a blank line, none precedes the very first step.
func Flatten(elements []domain.Element, index int, opts Options) ([]string, int, error) {
	var lines []string
	first := true
	next, err := walk(elements, index, func(n int, step domain.Element) {
		if !first {
			lines = append(lines, "")
		}
		first = false
		if opts.Verbose {
			lines = append(lines, fmt.Sprintf("# step %d", n))
		}
		lines = append(lines, step.Action, step.Response)
	})
	if err != nil {
		return nil, index, err
	}
	return lines, next, nil
}

// Steps returns the steps of an element tree in document order
func Steps(elements []domain.Element) ([]domain.Step, error) {
	var steps []domain.Step
	_, err := walk(elements, 0, func(_ int, step domain.Element) {
		steps = append(steps, domain.Step{Action: step.Action, Response: step.Response})
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// walk visits every step, with surrounding whitespace trimmed, and returns the next
// index. The index advances once per element of any type.
func walk(elements []domain.Element, index int, visit func(int, domain.Element)) (int, error) {
	for _, el := range elements {
		switch el.Type {
		case domain.ElementTest:
			next, err := walk(el.Elements, index, visit)
			if err != nil {
				return index, err
			}
			index = next + 1
		case domain.ElementStep:
			step, err := checkStep(index, el)
			if err != nil {
				return index, err
			}
			visit(index, step)
			index++
		default:
			return index, &UnsupportedElementError{Type: el.Type, Index: index}
		}
	}
	return index, nil
}

func checkStep(index int, step domain.Element) (domain.Element, error) {
	step.Action = strings.TrimSpace(step.Action)
	step.Response = strings.TrimSpace(step.Response)

	for _, f := range []struct{ name, text string }{{"action", step.Action}, {"response", step.Response}} {
		reason := ""
		switch {
		case f.text == "":
			reason = "is empty"
		case strings.ContainsAny(f.text, "\r\n"):
			reason = "spans several lines"
		case strings.HasPrefix(f.text, "#"):
			reason = "starts with #"
		}
		if reason != "" {
			return step, &UnrepresentableStepError{Index: index, Field: f.name, Reason: reason}
		}
	}
	return step, nil
}
