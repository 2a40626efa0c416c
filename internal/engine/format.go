package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"wintriage/internal/domain"
)

// TruncationMarker is appended whenever the rendered report was cut at
// the character budget, so the consumer always knows content was dropped.
const TruncationMarker = "...[truncated]"

// maxMessageChars caps a single group's message line in the report
const maxMessageChars = 200

const timeDisplayLayout = "2006-01-02 15:04:05"

// mojibakeReplacer strips the byte artifacts that show up when the
// collector's cp1252 output is re-read as UTF-8.
var mojibakeReplacer = strings.NewReplacer(
	"â€™", "'",
	"â€œ", "\"",
	"â€", "\"",
	"â€“", "-",
	"â€”", "-",
	"â€¦", "...",
	"Â", "",
)

// Format renders the snapshot metadata, summary, and aggregate groups
// into a single text block with fixed section order. The full text is
// rendered first; if it exceeds opts.BudgetChars the text is cut at the
// budget boundary and the truncation marker appended. Section headers
// always render, with explicit placeholders when data is missing.
func (e *Engine) Format(snap *domain.Snapshot, summary domain.Summary, groups []domain.AggregateGroup, opts FormatOptions) string {
	var b strings.Builder

	writeSystemSection(&b, snap.SystemFacts)
	writeCollectionSection(&b, snap)
	if opts.IncludeNetworkInfo {
		writeNetworkSection(&b, snap.NetworkInfo)
	}
	writeSummarySection(&b, summary)
	writeEventsSection(&b, groups)

	text := strings.TrimRight(b.String(), "\n")
	if opts.BudgetChars > 0 && utf8.RuneCountInString(text) > opts.BudgetChars {
		text = cutRunes(text, opts.BudgetChars) + TruncationMarker
	}
	return text
}

// cutRunes slices s after n runes so a cut never splits a multi-byte
// sequence. The caller guarantees s holds more than n runes.
func cutRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func writeSystemSection(b *strings.Builder, facts domain.SystemFacts) {
	b.WriteString("## SYSTEM INFORMATION ##\n")
	fmt.Fprintf(b, "Computer: %s\n", orUnknown(facts.ComputerName))
	os := orUnknown(facts.OSVersion)
	if facts.OSBuild != "" && facts.OSBuild != "Unknown" {
		os += " (Build " + facts.OSBuild + ")"
	}
	fmt.Fprintf(b, "OS: %s\n", os)
	fmt.Fprintf(b, "Last Boot: %s\n", orUnknown(facts.LastBootTime))
	fmt.Fprintf(b, "Uptime: %s\n", orUnknown(facts.Uptime))
	fmt.Fprintf(b, "CPU: %s\n", orUnknown(facts.Processor))
	fmt.Fprintf(b, "Memory: %s\n", orUnknown(facts.Memory))
	b.WriteString("\n")
}

func writeCollectionSection(b *strings.Builder, snap *domain.Snapshot) {
	b.WriteString("## COLLECTION INFO ##\n")
	fmt.Fprintf(b, "Collection Time: %s\n", orNA(snap.CollectionTime))
	fmt.Fprintf(b, "Time Range: %s to %s\n",
		orNA(snap.TimeRange.StartTime), orNA(snap.TimeRange.EndTime))
	b.WriteString("\n")
}

func writeNetworkSection(b *strings.Builder, facts []domain.Fact) {
	b.WriteString("## NETWORK INFO ##\n")
	if len(facts) == 0 {
		b.WriteString("unavailable\n\n")
		return
	}
	for _, f := range facts {
		fmt.Fprintf(b, "- %s: %s\n", f.Key, f.Value)
	}
	b.WriteString("\n")
}

func writeSummarySection(b *strings.Builder, summary domain.Summary) {
	b.WriteString("## EVENT SUMMARY ##\n")
	fmt.Fprintf(b, "Total Events: %d\n", summary.TotalEvents)

	if len(summary.ByLogName) > 0 {
		b.WriteString("Events by Log:\n")
		names := make([]string, 0, len(summary.ByLogName))
		for name := range summary.ByLogName {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(b, "- %s: %d\n", orNA(name), summary.ByLogName[name])
		}
	}

	b.WriteString("Events by Severity:\n")
	wrote := false
	for _, sev := range domain.Severities {
		if count := summary.BySeverity[sev]; count > 0 {
			fmt.Fprintf(b, "- %s: %d\n", sev, count)
			wrote = true
		}
	}
	if !wrote {
		b.WriteString("- none\n")
	}

	if len(summary.TopProviders) > 0 {
		b.WriteString("Top Providers:\n")
		for _, entry := range summary.TopProviders {
			fmt.Fprintf(b, "- %s (%s): %d events\n", entry.Name, orNA(entry.LogName), entry.Count)
		}
	}
	if len(summary.TopEventIDs) > 0 {
		b.WriteString("Top Event IDs:\n")
		for _, entry := range summary.TopEventIDs {
			fmt.Fprintf(b, "- Event ID %d (%s): %d occurrences\n", entry.EventID, orNA(entry.LogName), entry.Count)
		}
	}
	b.WriteString("\n")
}

func writeEventsSection(b *strings.Builder, groups []domain.AggregateGroup) {
	b.WriteString("## SIGNIFICANT EVENTS ##\n")
	if len(groups) == 0 {
		b.WriteString("No events collected.\n")
		return
	}

	for _, g := range groups {
		fmt.Fprintf(b, "%s | %s | Event ID: %d | Count: %d\n",
			g.Severity, orUnknown(g.Provider), g.EventID, g.Count)
		fmt.Fprintf(b, "Message: %s\n", cleanMessage(g.Message))

		switch {
		case g.Count > 1 && g.First != nil && g.Last != nil:
			fmt.Fprintf(b, "First: %s\n", g.First.Format(timeDisplayLayout))
			fmt.Fprintf(b, "Last: %s\n", g.Last.Format(timeDisplayLayout))
			if len(g.Recent) > 1 {
				fmt.Fprintf(b, "Recent: %s\n", joinTimes(g.Recent))
			}
		case g.Last != nil:
			fmt.Fprintf(b, "Time: %s\n", g.Last.Format(timeDisplayLayout))
		default:
			b.WriteString("Time: N/A\n")
		}
		b.WriteString("\n")
	}
}

// cleanMessage collapses newlines to single spaces, strips known
// mis-decoded byte artifacts, and trims the result.
func cleanMessage(msg string) string {
	if msg == "" {
		return "No message"
	}
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = mojibakeReplacer.Replace(msg)
	msg = strings.TrimSpace(msg)
	if utf8.RuneCountInString(msg) > maxMessageChars {
		msg = cutRunes(msg, maxMessageChars-3) + "..."
	}
	return msg
}

func joinTimes(ts []time.Time) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Format(timeDisplayLayout)
	}
	return strings.Join(parts, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
