package specfile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExportName(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		title    string
		expected string
	}{
		{name: "punctuation removed", id: 42, title: "Log In!", expected: "0000000042_log_in"},
		{name: "space runs collapsed", id: 7, title: "Pay   by  card", expected: "0000000007_pay_by_card"},
		{name: "digits kept", id: 1234567890, title: "Step 2 of 3", expected: "1234567890_step_2_of_3"},
		{name: "non ascii dropped", id: 5, title: "Café order", expected: "0000000005_caf_order"},
		{name: "empty title", id: 9, title: "", expected: "0000000009_"},
		{name: "surrounding spaces", id: 3, title: "  Search ", expected: "0000000003_search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExportName(tt.id, tt.title))
		})
	}
}

func TestExportName_Deterministic(t *testing.T) {
	first := ExportName(42, "Log In!")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExportName(42, "Log In!"))
	}
	assert.Equal(t, first, ExportName(42, "log in"))
	assert.Equal(t, first, ExportName(42, "Log, In."))
}

func TestNewName(t *testing.T) {
	assert.Equal(t, "checkout", NewName("checkout"))

	generated := NewName("")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.NotEqual(t, generated, NewName(""))
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "login.test", WithExtension("login", ".test"))
	assert.Equal(t, "login.test", WithExtension("login.test", ".test"))
	assert.Equal(t, "login.txt.test", WithExtension("login.txt", ".test"))
}
