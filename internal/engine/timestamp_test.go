package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // RFC3339 in UTC
	}{
		{
			name:  "zulu no fraction",
			input: "2026-08-20T10:30:00Z",
			want:  "2026-08-20T10:30:00Z",
		},
		{
			name:  "zulu with six digit fraction",
			input: "2026-08-20T10:30:00.123456Z",
			want:  "2026-08-20T10:30:00.123456Z",
		},
		{
			name:  "short fraction padded",
			input: "2026-08-20T10:30:00.5Z",
			want:  "2026-08-20T10:30:00.5Z",
		},
		{
			name:  "long fraction truncated",
			input: "2026-08-20T10:30:00.1234567Z",
			want:  "2026-08-20T10:30:00.123456Z",
		},
		{
			name:  "numeric offset",
			input: "2026-08-20T10:30:00.000000+02:00",
			want:  "2026-08-20T08:30:00Z",
		},
		{
			name:  "space separator",
			input: "2026-08-20 10:30:00Z",
			want:  "2026-08-20T10:30:00Z",
		},
		{
			name:  "bare timestamp is UTC",
			input: "2026-08-20T10:30:00",
			want:  "2026-08-20T10:30:00Z",
		},
		{
			name:  "bare with space separator",
			input: "2026-08-20 10:30:00.25",
			want:  "2026-08-20T10:30:00.25Z",
		},
		{
			name:  "surrounding whitespace",
			input: "  2026-08-20T10:30:00Z  ",
			want:  "2026-08-20T10:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEventTime(tt.input)
			require.NoError(t, err)

			want, err := time.Parse(time.RFC3339Nano, tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseEventTime_Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "not a time", "20/08/2026 10:30", "2026-08-20T10:30:00.Z"} {
		_, err := parseEventTime(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestNormalizeFraction(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2026-08-20T10:30:00Z", "2026-08-20T10:30:00Z"},
		{"2026-08-20T10:30:00.5Z", "2026-08-20T10:30:00.500000Z"},
		{"2026-08-20T10:30:00.123456789Z", "2026-08-20T10:30:00.123456Z"},
		{"2026-08-20T10:30:00.123456+02:00", "2026-08-20T10:30:00.123456+02:00"},
		{"2026-08-20T10:30:00.1", "2026-08-20T10:30:00.100000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeFraction(tt.input), "input %q", tt.input)
	}
}
