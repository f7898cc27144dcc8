package flatten

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/domain"
	"tmsync/internal/parser"
)

func step(action, response string) domain.Element {
	return domain.Element{Type: domain.ElementStep, Action: action, Response: response}
}

func nested(children ...domain.Element) domain.Element {
	return domain.Element{Type: domain.ElementTest, Elements: children}
}

func TestFlatten(t *testing.T) {
	elements := []domain.Element{
		step("open home", "home is shown"),
		nested(
			step("click login", "login form is shown"),
			nested(step("type password", "password is masked")),
		),
		step("submit", "dashboard is shown"),
	}

	lines, next, err := Flatten(elements, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"open home", "home is shown",
		"",
		"click login", "login form is shown",
		"",
		"type password", "password is masked",
		"",
		"submit", "dashboard is shown",
	}, lines)
	// 4 steps and 2 nested tests
	assert.Equal(t, 6, next)
}

func TestFlatten_Verbose(t *testing.T) {
	elements := []domain.Element{
		step("a", "b"),
		nested(step("c", "d")),
	}

	lines, _, err := Flatten(elements, 1, Options{Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"# step 1", "a", "b", "", "# step 2", "c", "d"}, lines)
}

func TestFlatten_Empty(t *testing.T) {
	lines, next, err := Flatten(nil, 3, Options{})
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 3, next)
}

func TestFlatten_UnsupportedElement(t *testing.T) {
	elements := []domain.Element{
		step("a", "b"),
		nested(domain.Element{Type: "screenshot"}),
	}

	lines, _, err := Flatten(elements, 0, Options{})
	assert.Nil(t, lines)

	var unsupported *UnsupportedElementError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "screenshot", unsupported.Type)
	assert.Equal(t, 1, unsupported.Index)

	_, err = Steps(elements)
	assert.True(t, errors.As(err, &unsupported))
}

func TestFlatten_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		t.Run(fmt.Sprintf("%d steps", n), func(t *testing.T) {
			var elements []domain.Element
			for i := 0; i < n; i++ {
				el := step(fmt.Sprintf("action %d", i), fmt.Sprintf("response %d", i))
				if i%3 == 1 {
					el = nested(nested(el))
				}
				elements = append(elements, el)
			}

			for _, verbose := range []bool{false, true} {
				lines, _, err := Flatten(elements, 1, Options{Verbose: verbose})
				require.NoError(t, err)

				text := "#! 6f1c2a4e-8b7d-4c1e-9a5f-0d3e2b1c4a5f\n\n" + strings.Join(lines, "\n") + "\n"
				parsed := parser.NewTextParser().Parse("x.test", text)
				require.False(t, parsed.HasErrors(), "errors: %v", parsed.Errors)

				want, err := Steps(elements)
				require.NoError(t, err)
				require.Len(t, parsed.Steps, n)
				if n > 0 {
					assert.Equal(t, want, parsed.Steps)
				}

				again, _, err := Flatten(toElements(parsed.Steps), 1, Options{Verbose: verbose})
				require.NoError(t, err)
				if n > 0 {
					assert.Equal(t, len(want)*2, countNonBlank(again, verbose))
				}
			}
		})
	}
}

func TestFlatten_RoundTripEdges(t *testing.T) {
	tests := []struct {
		name    string
		step    domain.Element
		want    domain.Step
		field   string
		invalid bool
	}{
		{name: "hash inside the text", step: step("type # into the box", "a # is shown"), want: domain.Step{Action: "type # into the box", Response: "a # is shown"}},
		{name: "surrounding whitespace is trimmed", step: step("  open home\t", " home is shown "), want: domain.Step{Action: "open home", Response: "home is shown"}},
		{name: "empty response", step: step("open home", ""), field: "response", invalid: true},
		{name: "blank action", step: step("   ", "home is shown"), field: "action", invalid: true},
		{name: "multiline response", step: step("open", "home\nis shown"), field: "response", invalid: true},
		{name: "carriage return in action", step: step("open\rhome", "shown"), field: "action", invalid: true},
		{name: "action reads as a comment", step: step("# open home", "home is shown"), field: "action", invalid: true},
		{name: "indented comment response", step: step("open home", "  #shown"), field: "response", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements := []domain.Element{step("first", "ok"), nested(tt.step)}

			lines, _, err := Flatten(elements, 1, Options{})
			if tt.invalid {
				var unrepresentable *UnrepresentableStepError
				require.True(t, errors.As(err, &unrepresentable), "got %v", err)
				assert.Equal(t, tt.field, unrepresentable.Field)
				assert.Equal(t, 2, unrepresentable.Index)
				assert.Nil(t, lines)
				return
			}
			require.NoError(t, err)

			text := "#! abc-123\n\n" + strings.Join(lines, "\n") + "\n"
			parsed := parser.NewTextParser().Parse("x.test", text)
			require.False(t, parsed.HasErrors(), "errors: %v", parsed.Errors)
			assert.Equal(t, []domain.Step{{Action: "first", Response: "ok"}, tt.want}, parsed.Steps)

			want, err := Steps(elements)
			require.NoError(t, err)
			assert.Equal(t, want, parsed.Steps)
		})
	}
}

func toElements(steps []domain.Step) []domain.Element {
	var out []domain.Element
	for _, s := range steps {
		out = append(out, step(s.Action, s.Response))
	}
	return out
}

func countNonBlank(lines []string, verbose bool) int {
	n := 0
	for _, l := range lines {
		if l == "" || (verbose && strings.HasPrefix(l, "#")) {
			continue
		}
		n++
	}
	return n
}
