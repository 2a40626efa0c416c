package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wintriage/internal/domain"
)

func testSnapshot(events []domain.RawEvent) *domain.Snapshot {
	return &domain.Snapshot{
		CollectionTime: "2026-08-20T12:00:00Z",
		TimeRange: domain.TimeRange{
			StartTime: "2026-08-18T12:00:00Z",
			EndTime:   "2026-08-20T12:00:00Z",
		},
		SystemFacts: domain.SystemFacts{
			ComputerName: "WORKSTATION-01",
			OSVersion:    "Microsoft Windows 11 Pro",
			OSBuild:      "26100",
			LastBootTime: "2026-08-19T08:00:00Z",
			Uptime:       "1 day, 4 hours",
			Processor:    "Intel Core i7",
			Memory:       "32 GB",
		},
		NetworkInfo: []domain.Fact{
			{Key: "IPAddress", Value: "192.168.1.10"},
			{Key: "Gateway", Value: "192.168.1.1"},
		},
		Events: events,
	}
}

func buildReport(t *testing.T, snap *domain.Snapshot, opts FormatOptions) string {
	t.Helper()
	eng := New(nil)
	report, err := eng.BuildReport(snap, opts)
	require.NoError(t, err)
	return report
}

func TestFormat_SectionOrder(t *testing.T) {
	report := buildReport(t, testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T10:00:00Z", "paging error"),
	}), FormatOptions{IncludeNetworkInfo: true})

	headers := []string{
		"## SYSTEM INFORMATION ##",
		"## COLLECTION INFO ##",
		"## NETWORK INFO ##",
		"## EVENT SUMMARY ##",
		"## SIGNIFICANT EVENTS ##",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(report, h)
		require.GreaterOrEqual(t, idx, 0, "missing header %s", h)
		assert.Greater(t, idx, last, "header %s out of order", h)
		last = idx
	}
}

func TestFormat_EmptyBatchRendersPlaceholders(t *testing.T) {
	snap := &domain.Snapshot{}
	report := buildReport(t, snap, FormatOptions{IncludeNetworkInfo: true})

	assert.Contains(t, report, "## SYSTEM INFORMATION ##")
	assert.Contains(t, report, "Computer: Unknown")
	assert.Contains(t, report, "Collection Time: N/A")
	assert.Contains(t, report, "Time Range: N/A to N/A")
	assert.Contains(t, report, "## NETWORK INFO ##\nunavailable")
	assert.Contains(t, report, "Total Events: 0")
	assert.Contains(t, report, "Events by Severity:\n- none")
	assert.Contains(t, report, "No events collected.")
}

func TestFormat_NetworkSectionToggle(t *testing.T) {
	snap := testSnapshot(nil)

	withNet := buildReport(t, snap, FormatOptions{IncludeNetworkInfo: true})
	assert.Contains(t, withNet, "## NETWORK INFO ##")
	assert.Contains(t, withNet, "- IPAddress: 192.168.1.10")

	withoutNet := buildReport(t, snap, FormatOptions{IncludeNetworkInfo: false})
	assert.NotContains(t, withoutNet, "## NETWORK INFO ##")
}

func TestFormat_GroupRendering(t *testing.T) {
	report := buildReport(t, testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T10:00:00Z", "paging error"),
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T11:30:00Z", "paging error"),
	}), FormatOptions{})

	assert.Contains(t, report, "Warning | Disk | Event ID: 51 | Count: 2")
	assert.Contains(t, report, "Message: paging error")
	assert.Contains(t, report, "First: 2026-08-20 10:00:00")
	assert.Contains(t, report, "Last: 2026-08-20 11:30:00")
}

func TestFormat_SingleOccurrenceUsesTimeLine(t *testing.T) {
	report := buildReport(t, testSnapshot([]domain.RawEvent{
		testEvent("System", "Kernel", 41, "Critical", "2026-08-20T10:00:00Z", "unexpected reboot"),
	}), FormatOptions{})

	assert.Contains(t, report, "Time: 2026-08-20 10:00:00")
	assert.NotContains(t, report, "First:")
	assert.NotContains(t, report, "Last:")
}

func TestFormat_TimestamplessGroupRendersNA(t *testing.T) {
	report := buildReport(t, testSnapshot([]domain.RawEvent{
		testEvent("System", "Kernel", 41, "Error", "", "no clock"),
	}), FormatOptions{})

	assert.Contains(t, report, "Time: N/A")
}

func TestFormat_BudgetTruncation(t *testing.T) {
	// A report comfortably over 500 characters.
	var events []domain.RawEvent
	for i := 0; i < 20; i++ {
		events = append(events, testEvent("System", "Disk", 51+i, "Warning",
			"2026-08-20T10:00:00Z", strings.Repeat("x", 80)))
	}
	snap := testSnapshot(events)

	full := buildReport(t, snap, FormatOptions{})
	require.Greater(t, len(full), 500)

	truncated := buildReport(t, snap, FormatOptions{BudgetChars: 50})
	assert.Equal(t, 50+len(TruncationMarker), len(truncated))
	assert.Equal(t, full[:50], truncated[:50])
	assert.True(t, strings.HasSuffix(truncated, TruncationMarker))
}

func TestFormat_BudgetProperty(t *testing.T) {
	snap := testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T10:00:00Z", "paging error"),
	})

	for _, budget := range []int{10, 100, 1000, 100000} {
		report := buildReport(t, snap, FormatOptions{BudgetChars: budget})
		if len(report) > budget {
			assert.True(t, strings.HasSuffix(report, TruncationMarker),
				"over-budget report must end with the marker (budget %d)", budget)
			assert.Equal(t, budget+len(TruncationMarker), len(report))
		}
	}
}

func TestFormat_BudgetCutsOnRuneBoundary(t *testing.T) {
	// A localized message of multi-byte runes so that most byte offsets
	// land inside a UTF-8 sequence.
	snap := testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T10:00:00Z",
			strings.Repeat("é", 150)),
	})

	full := buildReport(t, snap, FormatOptions{})
	require.True(t, utf8.ValidString(full))

	for budget := 300; budget < 420; budget += 7 {
		report := buildReport(t, snap, FormatOptions{BudgetChars: budget})
		require.True(t, utf8.ValidString(report), "budget %d", budget)
		if body, ok := strings.CutSuffix(report, TruncationMarker); ok {
			assert.Equal(t, budget, utf8.RuneCountInString(body), "budget %d", budget)
		}
	}
}

func TestFormat_ZeroBudgetMeansUnlimited(t *testing.T) {
	snap := testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "2026-08-20T10:00:00Z", "paging error"),
	})

	report := buildReport(t, snap, FormatOptions{BudgetChars: 0})
	assert.NotContains(t, report, TruncationMarker)
}

func TestFormat_SummaryOmitsZeroSeverities(t *testing.T) {
	report := buildReport(t, testSnapshot([]domain.RawEvent{
		testEvent("System", "Disk", 51, "Warning", "", "m"),
		testEvent("System", "Disk", 51, "Warning", "", "m"),
	}), FormatOptions{})

	assert.Contains(t, report, "- Warning: 2")
	assert.NotContains(t, report, "- Critical:")
	assert.NotContains(t, report, "- Verbose:")
}

func TestBuildReport_NilSnapshot(t *testing.T) {
	eng := New(nil)
	_, err := eng.BuildReport(nil, FormatOptions{})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestCleanMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty becomes placeholder",
			input:    "",
			expected: "No message",
		},
		{
			name:     "newlines collapse to spaces",
			input:    "line one\r\nline two\nline three",
			expected: "line one line two line three",
		},
		{
			name:     "mojibake apostrophe",
			input:    "The service didnâ€™t respond",
			expected: "The service didn't respond",
		},
		{
			name:     "mojibake dash and ellipsis",
			input:    "retry â€“ pending â€¦",
			expected: "retry - pending ...",
		},
		{
			name:     "stray bytes stripped",
			input:    "MemoryÂ pressure",
			expected: "Memory pressure",
		},
		{
			name:     "whitespace trimmed",
			input:    "  padded  ",
			expected: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanMessage(tt.input))
		})
	}

	t.Run("long messages truncated", func(t *testing.T) {
		got := cleanMessage(strings.Repeat("a", 500))
		assert.Len(t, got, maxMessageChars)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("long multi-byte messages stay valid UTF-8", func(t *testing.T) {
		got := cleanMessage(strings.Repeat("é", 400))
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, maxMessageChars, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}
