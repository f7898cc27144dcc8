package domain

// Step is one (action, response) pair
type Step struct {
	Action   string
	Response string
}

// SpecTest is a parsed local spec file
type SpecTest struct {
	Path        string         // Path to the spec file
	ID          string         // Identity taken from the "!" marker line
	IDLine      int            // Line of the marker, 0 when absent
	Title       string         // "title:" header value
	StartURI    string         // "start_uri:" header value
	Tags        []string       // "tags:" header value
	Browsers    []string       // "browsers:" header value
	Description string         // Header text without the leading "#"
	Steps       []Step         // Steps in file order
	Errors      map[int]string // Parse errors keyed by 1-based line number
}

// HasErrors reports whether the file failed to parse
func (t *SpecTest) HasErrors() bool {
	return len(t.Errors) > 0
}
