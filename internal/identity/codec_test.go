package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/domain"
)

func fixedID(t *testing.T, id string) {
	t.Helper()
	prev := NewID
	NewID = func() string { return id }
	t.Cleanup(func() { NewID = prev })
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		description string
		id          string
		ok          bool
	}{
		{name: "empty", description: "", ok: false},
		{name: "no marker", description: "Checks the login form\ntitle: Login", ok: false},
		{name: "plain marker", description: "!abc-123", id: "abc-123", ok: true},
		{name: "marker with space", description: "! abc-123\ntitle: Login", id: "abc-123", ok: true},
		{name: "comment noise", description: "intro\n  #! abc-123 ###  \nmore", id: "abc-123", ok: true},
		{name: "token stops at whitespace", description: "! abc-123 extra words", id: "abc-123", ok: true},
		{name: "first marker wins", description: "!first\n!second", id: "first", ok: true},
		{name: "bare marker", description: "!\n", ok: false},
		{name: "marker not at line start", description: "see !abc-123", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Decode(tt.description)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestEncodeHeader_Synthesized(t *testing.T) {
	fixedID(t, "11111111-2222-3333-4444-555555555555")

	test := &domain.TestDetail{
		ID:          42,
		Title:       "Log In!",
		StartURI:    "/login",
		Description: "Checks the login form\n\n",
		Tags:        []string{"auth", "smoke"},
		Browsers: []domain.Browser{
			{Name: "chrome", State: domain.BrowserEnabled},
			{Name: "safari", State: domain.BrowserDisabled},
			{Name: "firefox", State: domain.BrowserEnabled},
		},
	}

	header := EncodeHeader(test)
	assert.Equal(t, []string{
		"#! 11111111-2222-3333-4444-555555555555",
		"# title: Log In!",
		"# start_uri: /login",
		"# tags: auth, smoke",
		"# browsers: chrome, firefox",
		Separator,
		"",
		"# Checks the login form",
	}, header)

	id, ok := Decode(strings.Join(header, "\n"))
	require.True(t, ok)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", id)
}

func TestEncodeHeader_ExistingIdentity(t *testing.T) {
	fixedID(t, "must-not-be-used")

	test := &domain.TestDetail{
		Title:       "Log In",
		Description: "! abc-123\ntitle: Log In\n\nChecks the login form",
	}

	header := EncodeHeader(test)
	assert.Equal(t, []string{"#! abc-123", "# title: Log In", "#", "# Checks the login form"}, header)

	markers := 0
	for _, line := range header {
		if IsMarker(cleanLine(line)) {
			markers++
		}
	}
	assert.Equal(t, 1, markers, "encoding must not add a second marker")
}

func TestEncodeHeader_Idempotent(t *testing.T) {
	fixedID(t, "fresh-id")

	first := EncodeHeader(&domain.TestDetail{Title: "Checkout", Description: "Pays with a card"})
	second := EncodeHeader(&domain.TestDetail{Title: "Checkout", Description: strings.Join(first, "\n")})
	third := EncodeHeader(&domain.TestDetail{Title: "Checkout", Description: strings.Join(second, "\n")})

	assert.Len(t, second, len(first))
	assert.Equal(t, second, third)
	assert.Equal(t, "# start_uri:", second[2])

	for i := 0; i < 3; i++ {
		id, ok := Decode(strings.Join(second, "\n"))
		require.True(t, ok)
		assert.Equal(t, "fresh-id", id)
	}
}
