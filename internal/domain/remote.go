package domain

// Element types understood by the remote service
const (
	ElementTest = "test"
	ElementStep = "step"
)

// Browser states
const (
	BrowserEnabled  = "enabled"
	BrowserDisabled = "disabled"
)

// Element is one node of a remote test's element tree.
// A "test" node carries nested Elements, a "step" node carries Action and Response.
type Element struct {
	Type           string    `json:"type"`
	Action         string    `json:"action,omitempty"`
	Response       string    `json:"response,omitempty"`
	TrackRedirects bool      `json:"track_redirects,omitempty"`
	Elements       []Element `json:"elements,omitempty"`
}

// Browser is a browser configuration attached to a remote test
type Browser struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// TestSummary is a remote test as returned by the listing endpoint (no elements)
type TestSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	StartURI    string   `json:"start_uri"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// TestDetail is a fully retrieved remote test
type TestDetail struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	StartURI    string    `json:"start_uri"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Browsers    []Browser `json:"browsers"`
	Elements    []Element `json:"elements"`
}

// EnabledBrowsers returns the names of the browsers in enabled state
func (t *TestDetail) EnabledBrowsers() []string {
	var names []string
	for _, b := range t.Browsers {
		if b.State == BrowserEnabled {
			names = append(names, b.Name)
		}
	}
	return names
}

// TestPayload is the body sent on create and update
type TestPayload struct {
	Title       string    `json:"title"`
	StartURI    string    `json:"start_uri"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Elements    []Element `json:"elements"`
	Browsers    []Browser `json:"browsers,omitempty"`
}

// Account is the identity behind an API token
type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
