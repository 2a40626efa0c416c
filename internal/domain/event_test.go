package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Severity
	}{
		{name: "critical by name", input: "Critical", expected: SeverityCritical},
		{name: "error by name", input: "Error", expected: SeverityError},
		{name: "warning lowercase", input: "warning", expected: SeverityWarning},
		{name: "information by name", input: "Information", expected: SeverityInformation},
		{name: "info alias", input: "info", expected: SeverityInformation},
		{name: "verbose by name", input: "Verbose", expected: SeverityVerbose},
		{name: "numeric critical", input: "1", expected: SeverityCritical},
		{name: "numeric error", input: "2", expected: SeverityError},
		{name: "numeric warning", input: "3", expected: SeverityWarning},
		{name: "numeric information", input: "4", expected: SeverityInformation},
		{name: "numeric verbose", input: "5", expected: SeverityVerbose},
		{name: "mixed case", input: "wArNiNg", expected: SeverityWarning},
		{name: "surrounding whitespace", input: "  Error  ", expected: SeverityError},
		{name: "unrecognized falls back", input: "bogus", expected: SeverityInformation},
		{name: "empty falls back", input: "", expected: SeverityInformation},
		{name: "unknown numeric falls back", input: "9", expected: SeverityInformation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSeverity(tt.input))
		})
	}
}

func TestParseSeverity_Idempotent(t *testing.T) {
	inputs := []string{"Critical", "error", "3", "info", "bogus", ""}
	for _, in := range inputs {
		once := ParseSeverity(in)
		assert.Equal(t, once, ParseSeverity(string(once)), "input %q", in)
	}
}

func TestSeverity_Priority(t *testing.T) {
	// Display order is most severe first; Priority must agree.
	for i := 0; i < len(Severities)-1; i++ {
		assert.Greater(t, Severities[i].Priority(), Severities[i+1].Priority(),
			"%s should outrank %s", Severities[i], Severities[i+1])
	}
}
